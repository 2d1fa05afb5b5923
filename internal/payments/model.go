package payments

import "time"

// Payment kinds.
const (
	KindSend    = "send"
	KindRequest = "request"
)

// Payment statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

// Payment records a money movement (or a pending request for one) between
// two wallets.
type Payment struct {
	ID           string
	Kind         string
	FromWalletID string
	ToWalletID   string
	Amount       int64
	Description  string
	Status       string
	ClientTxID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
