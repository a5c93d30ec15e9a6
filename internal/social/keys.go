package social

import "github.com/avolkov/pawshare/internal/querycache"

// Query keys. All reads sharing a key refetch together after invalidation.
const (
	KeyPosts     querycache.Key = "posts"
	KeyReactions querycache.Key = "post-reactions"
	KeyComments  querycache.Key = "post-comments"
)

// KeyUserPosts identifies one profile's own posts.
func KeyUserPosts(profileID string) querycache.Key {
	return querycache.Key("user-posts:" + profileID)
}

// KeyProfile identifies a single profile record.
func KeyProfile(profileID string) querycache.Key {
	return querycache.Key("profile:" + profileID)
}
