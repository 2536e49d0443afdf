package domain

import "time"

// User represents an API consumer identified by its key.
type User struct {
	ID        int64
	Username  string
	Email     *string
	APIKey    string // only populated right after registration
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the caller resolved from a valid, active API key.
type Identity struct {
	ID       int64
	Username string
	Email    *string
	APIKey   string
	Admin    bool
}
