package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/notification"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

var (
	// ErrNotOwner indicates the caller does not own the wallet being debited.
	ErrNotOwner = errors.New("not owner of source wallet")
	// ErrNotPending indicates a settle/decline on a request that is no longer open.
	ErrNotPending = errors.New("money request is not pending")
	// ErrNotParticipant indicates the caller is not involved in the payment.
	ErrNotParticipant = errors.New("not a participant in this payment")
)

// Service wires ledger postings and payment records for P2P money movement.
type Service struct {
	ledger        ledger.Ledger
	walletService *wallet.Service
	repo          Repository
	notifier      notification.Notifier
}

// NewService constructs a payment service.
func NewService(led ledger.Ledger, walletService *wallet.Service, repo Repository, notifier notification.Notifier) *Service {
	return &Service{ledger: led, walletService: walletService, repo: repo, notifier: notifier}
}

// SendInput captures the data needed to move funds between wallets.
type SendInput struct {
	FromWalletID    string
	ToWalletID      string
	Amount          int64
	Description     string
	ClientTxID      string
	RequestorUserID string
}

// Send posts a balanced ledger entry between two wallets and records the payment.
func (s *Service) Send(ctx context.Context, input SendInput) (Payment, error) {
	if input.Amount <= 0 {
		return Payment{}, fmt.Errorf("amount must be positive")
	}
	if input.FromWalletID == input.ToWalletID {
		return Payment{}, fmt.Errorf("cannot send money to the same wallet")
	}
	if input.ClientTxID == "" {
		input.ClientTxID = uuid.New().String()
	}

	fromWallet, err := s.walletService.Get(ctx, input.FromWalletID)
	if err != nil {
		return Payment{}, err
	}
	if input.RequestorUserID != "" && fromWallet.OwnerID != input.RequestorUserID {
		return Payment{}, ErrNotOwner
	}
	toWallet, err := s.walletService.Get(ctx, input.ToWalletID)
	if err != nil {
		return Payment{}, err
	}

	if _, err := s.ledger.Transfer(ctx, fromWallet.AccountCode, toWallet.AccountCode, ledger.KindP2P, input.ClientTxID, input.Amount); err != nil {
		return Payment{}, err
	}

	now := time.Now().UTC()
	payment := Payment{
		ID:           uuid.New().String(),
		Kind:         KindSend,
		FromWalletID: fromWallet.ID,
		ToWalletID:   toWallet.ID,
		Amount:       input.Amount,
		Description:  input.Description,
		Status:       StatusCompleted,
		ClientTxID:   input.ClientTxID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return Payment{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindP2PTransfer,
			Destination: toWallet.OwnerID,
			Body:        fmt.Sprintf("You received %s from wallet %s", wallet.FormatAmount(input.Amount), fromWallet.ID),
		})
	}

	return payment, nil
}

// RequestInput captures a money request.
type RequestInput struct {
	RequesterWalletID string
	PayerWalletID     string
	Amount            int64
	Description       string
	RequestorUserID   string
}

// Request records a pending money request; no funds move until the payer settles.
func (s *Service) Request(ctx context.Context, input RequestInput) (Payment, error) {
	if input.Amount <= 0 {
		return Payment{}, fmt.Errorf("amount must be positive")
	}
	if input.RequesterWalletID == input.PayerWalletID {
		return Payment{}, fmt.Errorf("cannot request money from yourself")
	}

	requesterWallet, err := s.walletService.Get(ctx, input.RequesterWalletID)
	if err != nil {
		return Payment{}, err
	}
	if input.RequestorUserID != "" && requesterWallet.OwnerID != input.RequestorUserID {
		return Payment{}, ErrNotOwner
	}
	payerWallet, err := s.walletService.Get(ctx, input.PayerWalletID)
	if err != nil {
		return Payment{}, err
	}

	now := time.Now().UTC()
	payment := Payment{
		ID:           uuid.New().String(),
		Kind:         KindRequest,
		FromWalletID: payerWallet.ID,
		ToWalletID:   requesterWallet.ID,
		Amount:       input.Amount,
		Description:  input.Description,
		Status:       StatusPending,
		ClientTxID:   uuid.New().String(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return Payment{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindMoneyRequest,
			Destination: payerWallet.OwnerID,
			Body:        fmt.Sprintf("Wallet %s requested %s from you", requesterWallet.ID, wallet.FormatAmount(input.Amount)),
		})
	}

	return payment, nil
}

// Settle fulfils a pending money request; the caller must own the paying wallet.
func (s *Service) Settle(ctx context.Context, paymentID, payerUserID string) (Payment, error) {
	payment, err := s.repo.Get(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if payment.Kind != KindRequest || payment.Status != StatusPending {
		return Payment{}, ErrNotPending
	}

	payerWallet, err := s.walletService.Get(ctx, payment.FromWalletID)
	if err != nil {
		return Payment{}, err
	}
	if payerWallet.OwnerID != payerUserID {
		return Payment{}, ErrNotOwner
	}
	requesterWallet, err := s.walletService.Get(ctx, payment.ToWalletID)
	if err != nil {
		return Payment{}, err
	}

	if _, err := s.ledger.Transfer(ctx, payerWallet.AccountCode, requesterWallet.AccountCode, ledger.KindP2P, payment.ClientTxID, payment.Amount); err != nil {
		return Payment{}, err
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, payment.ID, StatusCompleted, now); err != nil {
		return Payment{}, err
	}
	payment.Status = StatusCompleted
	payment.UpdatedAt = now
	return payment, nil
}

// Decline closes a pending money request without moving funds.
func (s *Service) Decline(ctx context.Context, paymentID, payerUserID string) (Payment, error) {
	payment, err := s.repo.Get(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if payment.Kind != KindRequest || payment.Status != StatusPending {
		return Payment{}, ErrNotPending
	}

	payerWallet, err := s.walletService.Get(ctx, payment.FromWalletID)
	if err != nil {
		return Payment{}, err
	}
	if payerWallet.OwnerID != payerUserID {
		return Payment{}, ErrNotOwner
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, payment.ID, StatusDeclined, now); err != nil {
		return Payment{}, err
	}
	payment.Status = StatusDeclined
	payment.UpdatedAt = now
	return payment, nil
}

// Status returns a payment visible to the calling user.
func (s *Service) Status(ctx context.Context, paymentID, callerUserID string) (Payment, error) {
	payment, err := s.repo.Get(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	for _, wid := range []string{payment.FromWalletID, payment.ToWalletID} {
		if wid == "" {
			continue
		}
		w, err := s.walletService.Get(ctx, wid)
		if err == nil && w.OwnerID == callerUserID {
			return payment, nil
		}
	}
	return Payment{}, ErrNotParticipant
}

// History lists payments involving the wallet, newest first.
func (s *Service) History(ctx context.Context, walletID string, page, limit int) ([]Payment, error) {
	return s.repo.ListByWallet(ctx, walletID, page, limit)
}
