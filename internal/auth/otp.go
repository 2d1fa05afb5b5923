package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/naya-pay/naya_pay/internal/kvstore"
)

const (
	otpKeyPrefix   = "otp:"
	resetKeyPrefix = "pwreset:"
)

// ErrCodeMismatch indicates an unknown, expired or incorrect one-time code.
var ErrCodeMismatch = errors.New("invalid or expired code")

// OTPService issues and verifies short-lived one-time codes and password
// reset tokens over the key-value store.
type OTPService struct {
	store    kvstore.Store
	otpTTL   time.Duration
	resetTTL time.Duration
}

// NewOTPService builds the OTP service.
func NewOTPService(store kvstore.Store, otpTTL, resetTTL time.Duration) *OTPService {
	return &OTPService{store: store, otpTTL: otpTTL, resetTTL: resetTTL}
}

// IssueOTP generates a six-digit code for the email and stores it with TTL.
func (s *OTPService) IssueOTP(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	if err := s.store.Set(ctx, otpKeyPrefix+email, code, s.otpTTL); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks the code and consumes it on success.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) error {
	stored, err := s.store.Get(ctx, otpKeyPrefix+email)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrCodeMismatch
		}
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return s.store.Del(ctx, otpKeyPrefix+email)
}

// IssueResetToken creates an opaque password-reset token bound to the user.
func (s *OTPService) IssueResetToken(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.store.Set(ctx, resetKeyPrefix+token, userID, s.resetTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResetToken resolves and invalidates a reset token, returning the
// bound user ID.
func (s *OTPService) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	userID, err := s.store.Get(ctx, resetKeyPrefix+token)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", ErrCodeMismatch
		}
		return "", err
	}
	if err := s.store.Del(ctx, resetKeyPrefix+token); err != nil {
		return "", err
	}
	return userID, nil
}
