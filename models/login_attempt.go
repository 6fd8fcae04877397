package models

import "time"

// LoginAttempt is one row of the append-only login ledger. The Email field
// holds the resolved identity: the account's email address when the
// username matched an account, or the raw username otherwise. Rows are
// never updated or deleted by the application.
type LoginAttempt struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Success   bool      `json:"success" db:"success"`
	IPAddress string    `json:"ip_address" db:"ip_address"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
