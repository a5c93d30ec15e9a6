package models

import "time"

// Post is a published pet photo. Posts are immutable after creation; the only
// write operations are insert and owner-delete.
type Post struct {
	ID        string
	ProfileID string
	PetName   string
	PetBreed  string
	PetAge    string
	PhotoURL  string
	Caption   string
	CreatedAt time.Time

	// Denormalized at read time via a join with profiles.
	AuthorUsername  string
	AuthorAvatarURL string
}
