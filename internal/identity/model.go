package identity

import "time"

// Roles a user can hold. Admin unlocks the review queue and balance
// adjustment endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// KYC verification states.
const (
	KYCUnverified = "unverified"
	KYCPending    = "pending"
	KYCVerified   = "verified"
	KYCRejected   = "rejected"
)

// User represents a registered wallet owner.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	KYCStatus    string
	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
	LastLogin    time.Time
}

// Credentials carry a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
