package models

// Reaction marks that a profile reacted to a post. At most one row may exist
// per (post, profile) pair; the store enforces this with a unique index.
type Reaction struct {
	ID        string
	PostID    string
	ProfileID string
}
