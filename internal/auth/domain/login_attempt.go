package domain

import "time"

// LoginAttempt is a single failed login. Rows only exist for failures.
type LoginAttempt struct {
	ID         string
	Identifier string // normalised login string (email or username)
	IPAddress  string
	CreatedAt  time.Time
}
