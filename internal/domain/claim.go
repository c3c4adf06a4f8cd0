package domain

import "time"

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Claim relates one user to one deal. At most one claim may exist per
// (UserID, DealID) pair; the claims table enforces this with a compound
// unique index, which is the actual guard against concurrent duplicates.
// Claims start pending and are approved or rejected by an administrator.
type Claim struct {
	ID        string
	UserID    string
	DealID    string
	Status    ClaimStatus
	ClaimedAt time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
