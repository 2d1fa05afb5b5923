package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/naya-pay/naya_pay/internal/ledger"
)

const (
	statusActive = "active"

	defaultCurrency = "PKR"
)

// Service exposes wallet operations backed by the ledger.
type Service struct {
	repo      Repository
	ledger    ledger.Ledger
	seedMinor int64
}

// NewService builds a wallet service. seedMinor, when positive, is credited
// to every newly provisioned wallet from the treasury (demo environments).
func NewService(repo Repository, led ledger.Ledger, seedMinor int64) *Service {
	return &Service{repo: repo, ledger: led, seedMinor: seedMinor}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	OwnerID  string
	Currency string
}

// Create provisions a wallet and associated ledger account, applying the
// configured seed balance.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	walletID := uuid.New().String()
	accountCode := fmt.Sprintf("wallet:%s", walletID)

	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, err
	}

	if err := s.ledger.EnsureAccount(ctx, accountCode); err != nil {
		return Wallet{}, err
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	wallet := Wallet{
		ID:          walletID,
		OwnerID:     input.OwnerID,
		AccountCode: accountCode,
		Currency:    currency,
		Status:      statusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}

	if s.seedMinor > 0 {
		if _, err := s.ledger.TopUp(ctx, accountCode, ledger.KindSeed, walletID, s.seedMinor); err != nil {
			return Wallet{}, err
		}
	}

	return wallet, nil
}

// Get retrieves wallet metadata.
func (s *Service) Get(ctx context.Context, id string) (Wallet, error) {
	return s.repo.Get(ctx, id)
}

// GetByOwner retrieves the wallet owned by a user.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// Balance returns the ledger balance for the wallet.
func (s *Service) Balance(ctx context.Context, id string) (Balance, error) {
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	amount, err := s.ledger.Balance(ctx, wallet.AccountCode)
	if err != nil {
		return Balance{}, err
	}
	return Balance{WalletID: wallet.ID, Amount: amount, AsOf: time.Now().UTC()}, nil
}

// Credit adds funds to the wallet from the treasury and returns the new
// balance. The (kind, clientTxID) pair makes retries idempotent.
func (s *Service) Credit(ctx context.Context, id string, amount int64, kind, clientTxID string) (Balance, error) {
	if amount <= 0 {
		return Balance{}, ErrInvalidAmount
	}
	if kind == "" {
		kind = ledger.KindTopUp
	}
	if clientTxID == "" {
		clientTxID = uuid.NewString()
	}
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	res, err := s.ledger.TopUp(ctx, wallet.AccountCode, kind, clientTxID, amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{WalletID: wallet.ID, Amount: res.ToBalance, AsOf: time.Now().UTC()}, nil
}

// Debit removes funds from the wallet into the treasury. It returns
// ledger.ErrInsufficientFunds, leaving the balance untouched, when the wallet
// cannot cover the amount.
func (s *Service) Debit(ctx context.Context, id string, amount int64, kind, clientTxID string) (Balance, error) {
	if amount <= 0 {
		return Balance{}, ErrInvalidAmount
	}
	if kind == "" {
		kind = ledger.KindWithdraw
	}
	if clientTxID == "" {
		clientTxID = uuid.NewString()
	}
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	res, err := s.ledger.Withdraw(ctx, wallet.AccountCode, kind, clientTxID, amount)
	if err != nil {
		return Balance{}, err
	}
	return Balance{WalletID: wallet.ID, Amount: res.FromBalance, AsOf: time.Now().UTC()}, nil
}

// SetBalance adjusts the wallet to an exact target balance by posting the
// difference against the treasury. Admin-only; the ledger stays balanced.
func (s *Service) SetBalance(ctx context.Context, id string, target int64) (Balance, error) {
	if target < 0 {
		return Balance{}, errors.New("target balance must be non-negative")
	}
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	current, err := s.ledger.Balance(ctx, wallet.AccountCode)
	if err != nil {
		return Balance{}, err
	}

	delta := target - current
	switch {
	case delta > 0:
		if _, err := s.ledger.TopUp(ctx, wallet.AccountCode, ledger.KindAdjust, uuid.NewString(), delta); err != nil {
			return Balance{}, err
		}
	case delta < 0:
		if _, err := s.ledger.Withdraw(ctx, wallet.AccountCode, ledger.KindAdjust, uuid.NewString(), -delta); err != nil {
			return Balance{}, err
		}
	}

	return Balance{WalletID: wallet.ID, Amount: target, AsOf: time.Now().UTC()}, nil
}

// Transactions lists the wallet's ledger entries newest first.
func (s *Service) Transactions(ctx context.Context, id string, page, limit int) ([]ledger.Entry, error) {
	wallet, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ledger.Entries(ctx, wallet.AccountCode, page, limit)
}
