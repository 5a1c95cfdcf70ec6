package domain

import "time"

// User represents a registered account. Accounts start unverified and cannot
// log in until an administrator flips IsVerified out-of-band.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsVerified   bool
	APIKey       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
