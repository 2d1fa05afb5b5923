package kyc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/notification"
)

type captureNotifier struct {
	last notification.Message
}

func (n *captureNotifier) Send(_ context.Context, message notification.Message) error {
	n.last = message
	return nil
}

func seedUser(t *testing.T, users identity.Repository) identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := identity.User{
		ID:           uuid.New().String(),
		Name:         "Sana Khan",
		Email:        "sana@example.com",
		Role:         identity.RoleUser,
		KYCStatus:    identity.KYCUnverified,
		PasswordHash: hash,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestSubmitMovesUserToPending(t *testing.T) {
	users := identity.NewMemoryRepository()
	service := NewService(NewMemoryRepository(), users, nil)
	user := seedUser(t, users)
	ctx := context.Background()

	submission, err := service.Submit(ctx, user.ID, DocNationalID, "35201-1234567-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Status != StatusPending {
		t.Fatalf("expected pending submission, got %s", submission.Status)
	}

	stored, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.KYCStatus != identity.KYCPending {
		t.Fatalf("expected pending user, got %s", stored.KYCStatus)
	}

	// A second submission while one is open is refused.
	if _, err := service.Submit(ctx, user.ID, DocPassport, "AB1234567"); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("expected ErrAlreadyPending, got %v", err)
	}
}

func TestSubmitRejectsInvalidDocument(t *testing.T) {
	users := identity.NewMemoryRepository()
	service := NewService(NewMemoryRepository(), users, nil)
	user := seedUser(t, users)

	for _, tc := range []struct{ docType, docNumber string }{
		{"utility_bill", "X"},
		{DocPassport, ""},
	} {
		if _, err := service.Submit(context.Background(), user.ID, tc.docType, tc.docNumber); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("expected ErrInvalidDocument for %+v, got %v", tc, err)
		}
	}
}

func TestApproveVerifiesUserAndNotifies(t *testing.T) {
	users := identity.NewMemoryRepository()
	notifier := &captureNotifier{}
	service := NewService(NewMemoryRepository(), users, notifier)
	user := seedUser(t, users)
	ctx := context.Background()

	submission, err := service.Submit(ctx, user.ID, DocNationalID, "35201-1234567-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	reviewerID := uuid.New().String()
	approved, err := service.Approve(ctx, submission.ID, reviewerID, "documents check out")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.ReviewedBy != reviewerID {
		t.Fatalf("unexpected decision record: %+v", approved)
	}

	stored, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.KYCStatus != identity.KYCVerified {
		t.Fatalf("expected verified user, got %s", stored.KYCStatus)
	}
	if notifier.last.Kind != notification.KindKYCDecision || notifier.last.Destination != user.ID {
		t.Fatalf("unexpected notification: %+v", notifier.last)
	}

	// Decisions are final.
	if _, err := service.Reject(ctx, submission.ID, reviewerID, ""); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	// A verified user cannot re-submit.
	if _, err := service.Submit(ctx, user.ID, DocPassport, "AB1234567"); !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestRejectAllowsResubmission(t *testing.T) {
	users := identity.NewMemoryRepository()
	service := NewService(NewMemoryRepository(), users, nil)
	user := seedUser(t, users)
	ctx := context.Background()

	submission, err := service.Submit(ctx, user.ID, DocLicense, "LHR-99-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Reject(ctx, submission.ID, uuid.New().String(), "blurry scan"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	stored, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.KYCStatus != identity.KYCRejected {
		t.Fatalf("expected rejected user, got %s", stored.KYCStatus)
	}

	// A rejected user may try again.
	again, err := service.Submit(ctx, user.ID, DocLicense, "LHR-99-1")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.Status != StatusPending {
		t.Fatalf("expected pending resubmission, got %s", again.Status)
	}
}

func TestPendingQueueOldestFirst(t *testing.T) {
	users := identity.NewMemoryRepository()
	service := NewService(NewMemoryRepository(), users, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		user := identity.User{
			ID:        uuid.New().String(),
			Name:      "User",
			Email:     uuid.New().String() + "@example.com",
			Role:      identity.RoleUser,
			KYCStatus: identity.KYCUnverified,
		}
		if err := users.Create(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
		s, err := service.Submit(ctx, user.ID, DocNationalID, "35201-0000000-0")
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		ids = append(ids, s.ID)
	}

	pending, err := service.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(pending))
	}

	count, err := service.PendingCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}

	if _, err := service.Approve(ctx, ids[0], uuid.New().String(), ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	count, err = service.PendingCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2 after approval, got %d", count)
	}
}
