package models

import "time"

// Comment is a text comment on a post. Content is stored trimmed and
// non-empty; comments are never edited or deleted.
type Comment struct {
	ID        string
	PostID    string
	ProfileID string
	Content   string
	CreatedAt time.Time

	// Denormalized at read time via a join with profiles.
	AuthorUsername  string
	AuthorAvatarURL string
}
