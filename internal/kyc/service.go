package kyc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/notification"
)

var (
	// ErrAlreadyPending indicates the user already has an open submission.
	ErrAlreadyPending = errors.New("verification already pending")
	// ErrAlreadyVerified indicates the user is already verified.
	ErrAlreadyVerified = errors.New("already verified")
	// ErrNotPending indicates a decision on a closed submission.
	ErrNotPending = errors.New("submission is not pending")
	// ErrInvalidDocument indicates a malformed submission.
	ErrInvalidDocument = errors.New("invalid document")
)

var docTypes = map[string]bool{
	DocNationalID: true,
	DocPassport:   true,
	DocLicense:    true,
}

// Service runs the identity verification workflow.
type Service struct {
	repo     Repository
	users    identity.Repository
	notifier notification.Notifier
}

// NewService constructs a KYC service.
func NewService(repo Repository, users identity.Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

// Submit enqueues a verification request and marks the user pending.
func (s *Service) Submit(ctx context.Context, userID, docType, docNumber string) (Submission, error) {
	if !docTypes[docType] || docNumber == "" {
		return Submission{}, ErrInvalidDocument
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Submission{}, err
	}
	switch user.KYCStatus {
	case identity.KYCVerified:
		return Submission{}, ErrAlreadyVerified
	case identity.KYCPending:
		return Submission{}, ErrAlreadyPending
	}

	submission := Submission{
		ID:        uuid.New().String(),
		UserID:    userID,
		DocType:   docType,
		DocNumber: docNumber,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return Submission{}, err
	}
	if err := s.users.UpdateKYCStatus(ctx, userID, identity.KYCPending); err != nil {
		return Submission{}, err
	}
	return submission, nil
}

// StatusFor returns the user's latest submission.
func (s *Service) StatusFor(ctx context.Context, userID string) (Submission, error) {
	return s.repo.LatestByUser(ctx, userID)
}

// Pending lists open submissions, oldest first.
func (s *Service) Pending(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListPending(ctx, limit)
}

// PendingCount counts open submissions.
func (s *Service) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.CountPending(ctx)
}

// Approve marks the submission approved and verifies the user.
func (s *Service) Approve(ctx context.Context, submissionID, reviewerID, note string) (Submission, error) {
	return s.decide(ctx, submissionID, reviewerID, note, StatusApproved, identity.KYCVerified)
}

// Reject marks the submission rejected.
func (s *Service) Reject(ctx context.Context, submissionID, reviewerID, note string) (Submission, error) {
	return s.decide(ctx, submissionID, reviewerID, note, StatusRejected, identity.KYCRejected)
}

func (s *Service) decide(ctx context.Context, submissionID, reviewerID, note, status, userStatus string) (Submission, error) {
	submission, err := s.repo.Get(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	if submission.Status != StatusPending {
		return Submission{}, ErrNotPending
	}

	submission.Status = status
	submission.Note = note
	submission.ReviewedAt = time.Now().UTC()
	submission.ReviewedBy = reviewerID
	if err := s.repo.Update(ctx, submission); err != nil {
		return Submission{}, err
	}
	if err := s.users.UpdateKYCStatus(ctx, submission.UserID, userStatus); err != nil {
		return Submission{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindKYCDecision,
			Destination: submission.UserID,
			Body:        fmt.Sprintf("Your identity verification was %s", status),
		})
	}

	return submission, nil
}
