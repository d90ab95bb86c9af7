package domain

import "time"

// Invite gates signup. Codes are stored as fingerprints.
type Invite struct {
	ID        string
	CodeHash  string
	Reusable  bool
	Used      bool
	UsedBy    string // Can be empty string if not yet used
	CreatedAt time.Time
	UpdatedAt time.Time
}
