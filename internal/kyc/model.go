package kyc

import "time"

// Submission statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Document types accepted for verification.
const (
	DocNationalID = "national_id"
	DocPassport   = "passport"
	DocLicense    = "driving_license"
)

// Submission is one identity verification attempt.
type Submission struct {
	ID         string
	UserID     string
	DocType    string
	DocNumber  string
	Status     string
	Note       string
	CreatedAt  time.Time
	ReviewedAt time.Time
	ReviewedBy string
}
