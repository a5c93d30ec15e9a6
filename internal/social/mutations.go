package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/filex"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/mutate"
	"github.com/avolkov/pawshare/internal/objstore"
	"github.com/avolkov/pawshare/internal/querycache"
	"github.com/avolkov/pawshare/internal/store"
)

// avatarCacheControl keeps avatars in downstream caches for an hour.
const avatarCacheControl = "3600"

// PostDraft is the post form's local state. It never touches the cache.
type PostDraft struct {
	PetName   string
	PetBreed  string
	PetAge    string
	Caption   string
	ImagePath string
}

// ProfileDraft is the profile form's local state.
type ProfileDraft struct {
	Username string
	Email    string
	Bio      string
	Location string
	// AvatarPath is a local image file; empty keeps the current avatar.
	AvatarPath string
}

// CreatePost validates the draft, uploads the photo, and inserts the post.
// On success the gallery and the author's own-posts keys refetch.
func (s *Service) CreatePost(ctx context.Context, draft PostDraft) error {
	me, err := s.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	petName := strings.TrimSpace(draft.PetName)
	caption := strings.TrimSpace(draft.Caption)
	if petName == "" {
		return &FieldError{Field: "pet name", Message: "pet name is required"}
	}
	if caption == "" {
		return &FieldError{Field: "caption", Message: "caption is required"}
	}
	if draft.ImagePath == "" {
		return &FieldError{Field: "image", Message: "an image is required"}
	}

	data, ext, err := filex.ReadImage(draft.ImagePath)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return &FieldError{Field: "image", Message: err.Error()}
		}
		return err
	}

	_, err = s.exec.Execute(ctx, mutate.Mutation{
		Name:           "create-post",
		FailureMessage: "could not publish post",
		Invalidates:    []querycache.Key{KeyPosts, KeyUserPosts(me)},
		Do: func(ctx context.Context) error {
			path := uuid.New().String() + ext
			if err := s.objects.Upload(ctx, s.config.PhotoBucket, path, data, objstore.UploadOptions{
				ContentType:  filex.ContentType(ext),
				CacheControl: avatarCacheControl,
			}); err != nil {
				return err
			}

			post := &models.Post{
				ProfileID: me,
				PetName:   petName,
				PetBreed:  strings.TrimSpace(draft.PetBreed),
				PetAge:    strings.TrimSpace(draft.PetAge),
				PhotoURL:  s.objects.PublicURL(s.config.PhotoBucket, path),
				Caption:   caption,
			}
			return s.stores.Posts(s.db).Create(ctx, post)
		},
	})
	return err
}

// DeletePost removes one of the caller's own posts. Ownership is enforced at
// the store layer; deleting another profile's post yields not-found.
func (s *Service) DeletePost(ctx context.Context, postID string) error {
	me, err := s.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	_, err = s.exec.Execute(ctx, mutate.Mutation{
		Name:           "delete-post",
		FailureMessage: "could not delete post",
		Invalidates:    []querycache.Key{KeyPosts, KeyUserPosts(me)},
		Do: func(ctx context.Context) error {
			return s.stores.Posts(s.db).Delete(ctx, postID, me)
		},
	})
	return err
}

// ToggleReaction reads the cached reaction list at call time and either
// removes the caller's existing reaction or inserts a new one. The store's
// unique index keeps concurrent duplicate toggles from creating a second row.
func (s *Service) ToggleReaction(ctx context.Context, postID string) error {
	me, err := s.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	reactions, err := s.Reactions(ctx)
	if err != nil {
		return err
	}

	var existing *models.Reaction
	for _, r := range reactions {
		if r.PostID == postID && r.ProfileID == me {
			existing = r
			break
		}
	}

	_, err = s.exec.Execute(ctx, mutate.Mutation{
		Name:           "toggle-reaction",
		FailureMessage: "could not update reaction",
		Invalidates:    []querycache.Key{KeyReactions},
		Do: func(ctx context.Context) error {
			repo := s.stores.Reactions(s.db)
			if existing != nil {
				return repo.Delete(ctx, existing.ID)
			}
			return repo.Create(ctx, &models.Reaction{PostID: postID, ProfileID: me})
		},
	})
	return err
}

// AddComment trims and validates the content, then inserts the comment.
// Whitespace-only submissions never reach the store layer.
func (s *Service) AddComment(ctx context.Context, postID string, content string) error {
	me, err := s.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return &FieldError{Field: "comment", Message: "comment cannot be empty"}
	}

	_, err = s.exec.Execute(ctx, mutate.Mutation{
		Name:           "add-comment",
		FailureMessage: "could not add comment",
		Invalidates:    []querycache.Key{KeyComments},
		Do: func(ctx context.Context) error {
			comment := &models.Comment{PostID: postID, ProfileID: me, Content: content}
			return s.stores.Comments(s.db).Create(ctx, comment)
		},
	})
	return err
}

// SaveProfile uploads a new avatar when one was chosen and upserts the
// profile keyed by the account id. A uniqueness violation on the username
// surfaces to the caller for an inline "already taken" message.
func (s *Service) SaveProfile(ctx context.Context, draft ProfileDraft) error {
	me, err := s.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	username := strings.TrimSpace(draft.Username)
	if username == "" {
		return &FieldError{Field: "username", Message: "username is required"}
	}

	var avatarData []byte
	var avatarExt string
	if draft.AvatarPath != "" {
		avatarData, avatarExt, err = filex.ReadImage(draft.AvatarPath)
		if err != nil {
			if errors.Is(err, common.ErrorValidation) {
				return &FieldError{Field: "avatar", Message: err.Error()}
			}
			return err
		}
	}

	// A profile that already exists keeps its avatar unless a new one was
	// chosen.
	avatarURL := ""
	if current, err := s.Profile(ctx, me); err == nil {
		avatarURL = current.AvatarURL
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	_, err = s.exec.Execute(ctx, mutate.Mutation{
		Name:           "save-profile",
		FailureMessage: "could not save profile",
		Invalidates:    []querycache.Key{KeyProfile(me)},
		// A taken username is reported next to the field, not as a toast.
		Quiet: store.IsUniqueViolation,
		Do: func(ctx context.Context) error {
			if avatarData != nil {
				token, err := common.MakeRandHexString(8)
				if err != nil {
					return fmt.Errorf("avatar name error: %w", err)
				}
				path := fmt.Sprintf("%s-%s%s", me, token, avatarExt)
				if err := s.objects.Upload(ctx, s.config.AvatarBucket, path, avatarData, objstore.UploadOptions{
					ContentType:  filex.ContentType(avatarExt),
					CacheControl: avatarCacheControl,
				}); err != nil {
					return err
				}
				avatarURL = s.objects.PublicURL(s.config.AvatarBucket, path)
			}

			profile := &models.Profile{
				ID:        me,
				Username:  username,
				Email:     strings.TrimSpace(draft.Email),
				Bio:       strings.TrimSpace(draft.Bio),
				Location:  strings.TrimSpace(draft.Location),
				AvatarURL: avatarURL,
			}
			return s.stores.Profiles(s.db).Upsert(ctx, profile)
		},
	})
	return err
}
