package bills

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/notification"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Fixed biller categories supported by the platform.
const (
	CategoryElectricity = "electricity"
	CategoryGas         = "gas"
	CategoryWater       = "water"
	CategoryInternet    = "internet"
	CategoryMobile      = "mobile"
)

var (
	// ErrUnknownCategory indicates an unsupported biller category.
	ErrUnknownCategory = errors.New("unknown biller category")
	// ErrNotOwner indicates the caller does not own the paying wallet.
	ErrNotOwner = errors.New("not owner of paying wallet")
)

var categories = []string{
	CategoryElectricity,
	CategoryGas,
	CategoryWater,
	CategoryInternet,
	CategoryMobile,
}

// Categories returns the supported biller categories.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// BillerAccountCode returns the ledger account a category settles into.
func BillerAccountCode(category string) string {
	return fmt.Sprintf("biller:%s", category)
}

// Receipt summarises a completed bill payment.
type Receipt struct {
	TransactionID string
	Category      string
	AccountRef    string
	Amount        int64
	NewBalance    int64
}

// Service settles bill payments against biller ledger accounts.
type Service struct {
	ledger   ledger.Ledger
	wallets  *wallet.Service
	notifier notification.Notifier
}

// NewService constructs a bill payment service and provisions the biller
// ledger accounts.
func NewService(ctx context.Context, led ledger.Ledger, wallets *wallet.Service, notifier notification.Notifier) (*Service, error) {
	for _, category := range categories {
		if err := led.EnsureAccount(ctx, BillerAccountCode(category)); err != nil {
			return nil, fmt.Errorf("ensure biller account %s: %w", category, err)
		}
	}
	return &Service{ledger: led, wallets: wallets, notifier: notifier}, nil
}

// PayInput captures a bill payment.
type PayInput struct {
	WalletID   string
	UserID     string
	Category   string
	AccountRef string
	Amount     int64
	ClientTxID string
}

// Pay debits the wallet into the biller's ledger account.
func (s *Service) Pay(ctx context.Context, input PayInput) (Receipt, error) {
	if !validCategory(input.Category) {
		return Receipt{}, ErrUnknownCategory
	}
	if input.Amount <= 0 {
		return Receipt{}, fmt.Errorf("amount must be positive")
	}
	if input.AccountRef == "" {
		return Receipt{}, fmt.Errorf("account reference is required")
	}
	if input.ClientTxID == "" {
		input.ClientTxID = uuid.New().String()
	}

	w, err := s.wallets.Get(ctx, input.WalletID)
	if err != nil {
		return Receipt{}, err
	}
	if input.UserID != "" && w.OwnerID != input.UserID {
		return Receipt{}, ErrNotOwner
	}

	res, err := s.ledger.Transfer(ctx, w.AccountCode, BillerAccountCode(input.Category), ledger.KindBill, input.ClientTxID, input.Amount)
	if err != nil {
		return Receipt{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBillPayment,
			Destination: w.OwnerID,
			Body:        fmt.Sprintf("Paid %s to %s (%s)", wallet.FormatAmount(input.Amount), input.Category, input.AccountRef),
		})
	}

	return Receipt{
		TransactionID: res.TransactionID,
		Category:      input.Category,
		AccountRef:    input.AccountRef,
		Amount:        input.Amount,
		NewBalance:    res.FromBalance,
	}, nil
}

func validCategory(category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
