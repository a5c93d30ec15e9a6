// Package models holds the entity types shared by the store layer and the
// views. All entities are remotely owned; the client only holds transient
// copies read through the query cache.
package models

import "time"

// Profile is the public identity attached to an account. Its ID equals the
// owning account's ID; creation and updates go through an upsert keyed on it.
type Profile struct {
	ID        string
	Username  string
	Email     string
	Bio       string
	Location  string
	AvatarURL string
	UpdatedAt time.Time
}
