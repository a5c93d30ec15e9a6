package models

import "time"

// Account is the identity boundary's own record. Profiles reference it by ID.
type Account struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// SessionToken is a server-stored rotating refresh token.
type SessionToken struct {
	ID        string
	AccountID string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
