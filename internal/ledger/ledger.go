package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInsufficientFunds occurs when the source account lacks available balance
	// to cover a requested posting.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateTransaction indicates the provided client transaction identifier
	// already exists and therefore the operation should be treated as idempotent.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrAccountNotFound reports an account code that has never been created.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount rejects postings where both sides name the same account.
	ErrSameAccount = errors.New("transfer accounts must differ")
)

// Transaction kinds recorded on postings.
const (
	KindP2P      = "p2p"
	KindTopUp    = "topup"
	KindWithdraw = "withdraw"
	KindBill     = "bill"
	KindAdjust   = "adjust"
	KindSeed     = "seed"
)

const (
	// StatusCompleted marks a settled posting.
	StatusCompleted = "completed"
	// TreasuryAccountCode is the counter-account for top-ups, withdrawals and
	// balance adjustments. It is allowed to go negative.
	TreasuryAccountCode = "treasury:main"
)

// TransactionResult captures the outcome of a ledger posting.
type TransactionResult struct {
	TransactionID string
	FromBalance   int64
	ToBalance     int64
}

// Entry is one side of a posting as seen from a single account. Amount is
// signed: positive entries credit the account.
type Entry struct {
	TransactionID string
	Kind          string
	Amount        int64
	Counterparty  string
	CreatedAt     time.Time
}

// Ledger defines the contract implemented by ledger backends (e.g. Postgres).
type Ledger interface {
	EnsureAccount(ctx context.Context, code string) error
	Balance(ctx context.Context, code string) (int64, error)
	// Transfer posts a balanced entry pair between two accounts, failing when
	// the source lacks funds. (kind, clientTxID) pairs are idempotency keys.
	Transfer(ctx context.Context, fromCode, toCode, kind, clientTxID string, amount int64) (TransactionResult, error)
	// TopUp credits the account from the treasury. The treasury side may go
	// negative; it absorbs externally funded value.
	TopUp(ctx context.Context, code, kind, clientTxID string, amount int64) (TransactionResult, error)
	// Withdraw debits the account into the treasury, failing on insufficient
	// funds.
	Withdraw(ctx context.Context, code, kind, clientTxID string, amount int64) (TransactionResult, error)
	// Entries lists the account's postings newest first. page starts at 1.
	Entries(ctx context.Context, code string, page, limit int) ([]Entry, error)
}
