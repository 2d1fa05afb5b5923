package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naya-pay/naya_pay/internal/kvstore"
)

func TestOTPIssueAndVerify(t *testing.T) {
	svc := NewOTPService(kvstore.NewMemory(), time.Minute, time.Minute)
	ctx := context.Background()

	code, err := svc.IssueOTP(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := svc.VerifyOTP(ctx, "a@b.com", "000000x"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := svc.VerifyOTP(ctx, "a@b.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// Codes are single use.
	if err := svc.VerifyOTP(ctx, "a@b.com", code); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected consumed code to be rejected, got %v", err)
	}
}

func TestOTPExpires(t *testing.T) {
	svc := NewOTPService(kvstore.NewMemory(), 10*time.Millisecond, time.Minute)
	ctx := context.Background()

	code, err := svc.IssueOTP(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := svc.VerifyOTP(ctx, "a@b.com", code); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected expired code to be rejected, got %v", err)
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := NewOTPService(kvstore.NewMemory(), time.Minute, time.Minute)
	ctx := context.Background()

	token, err := svc.IssueResetToken(ctx, "user-1")
	if err != nil {
		t.Fatalf("issue reset: %v", err)
	}

	userID, err := svc.ConsumeResetToken(ctx, token)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %s", userID)
	}

	if _, err := svc.ConsumeResetToken(ctx, token); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}
}
