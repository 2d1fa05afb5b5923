package cards

import "time"

// Card is a virtual card issued against a wallet owner.
type Card struct {
	ID           string
	OwnerID      string
	Label        string
	MaskedNumber string
	Last4        string
	ExpiryMonth  int
	ExpiryYear   int
	Frozen       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
