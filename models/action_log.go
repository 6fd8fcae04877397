package models

import "time"

// ActionLogEntry represents a single recorded user action
type ActionLogEntry struct {
	ID         int64     `json:"id" db:"id"`
	UserID     *int      `json:"user_id" db:"user_id"`
	Action     string    `json:"action" db:"action"`
	EntityType string    `json:"entity_type" db:"entity_type"`
	EntityID   *int      `json:"entity_id" db:"entity_id"`
	Details    string    `json:"details" db:"details"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`

	// Joined for display on the activity feed
	UserName string `json:"user_name,omitempty" db:"-"`
}
