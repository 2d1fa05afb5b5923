package cards

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ErrNotOwner indicates the caller does not own the card.
var ErrNotOwner = errors.New("not owner of card")

const expiryYears = 4

// Service issues and manages virtual cards.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a card service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Request issues a new virtual card for the owner. Only the masked form of
// the card number is ever stored.
func (s *Service) Request(ctx context.Context, ownerID, label string) (Card, error) {
	if label == "" {
		label = "Virtual Card"
	}
	last4, err := randomDigits(4)
	if err != nil {
		return Card{}, err
	}

	now := s.now()
	expiry := now.AddDate(expiryYears, 0, 0)
	card := Card{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Label:        label,
		MaskedNumber: fmt.Sprintf("**** **** **** %s", last4),
		Last4:        last4,
		ExpiryMonth:  int(expiry.Month()),
		ExpiryYear:   expiry.Year(),
		Frozen:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return Card{}, err
	}
	return card, nil
}

// List returns the owner's cards, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Card, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// SetFrozen freezes or unfreezes a card owned by the caller.
func (s *Service) SetFrozen(ctx context.Context, cardID, ownerID string, frozen bool) (Card, error) {
	card, err := s.repo.Get(ctx, cardID)
	if err != nil {
		return Card{}, err
	}
	if card.OwnerID != ownerID {
		return Card{}, ErrNotOwner
	}

	now := s.now()
	if err := s.repo.SetFrozen(ctx, cardID, frozen, now); err != nil {
		return Card{}, err
	}
	card.Frozen = frozen
	card.UpdatedAt = now
	return card, nil
}

func randomDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}
