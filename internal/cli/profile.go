package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/social"
	"github.com/avolkov/pawshare/internal/store"
)

// ShowProfile prints the signed-in account's profile and its posts.
func (a *App) ShowProfile(ctx context.Context) error {
	me, err := a.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	profile, err := a.service.Profile(ctx, me)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("No profile yet. Use 'editprofile' to create one.")
			return nil
		}
		log.Printf("profile error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "username: %s\n", profile.Username)
	if profile.Email != "" {
		fmt.Fprintf(a.out, "email:    %s\n", profile.Email)
	}
	if profile.Bio != "" {
		fmt.Fprintf(a.out, "bio:      %s\n", profile.Bio)
	}
	if profile.Location != "" {
		fmt.Fprintf(a.out, "location: %s\n", profile.Location)
	}
	if profile.AvatarURL != "" {
		fmt.Fprintf(a.out, "avatar:   %s\n", profile.AvatarURL)
	}

	posts, err := a.service.UserPosts(ctx, me)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d post(s)\n", len(posts))
	for _, p := range posts {
		fmt.Fprintf(a.out, "  %s: %s\n", p.PetName, p.Caption)
	}
	return nil
}

// EditProfile prompts for profile fields and saves them. Empty answers keep
// the current values; a taken username prints inline next to the field.
func (a *App) EditProfile(ctx context.Context) error {
	me, err := a.identity.CurrentAccountID(ctx)
	if err != nil {
		return err
	}

	draft := social.ProfileDraft{}
	if current, err := a.service.Profile(ctx, me); err == nil {
		draft = social.ProfileDraft{
			Username: current.Username,
			Email:    current.Email,
			Bio:      current.Bio,
			Location: current.Location,
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		log.Printf("profile error: %s", err.Error())
		return err
	}

	ask := func(prompt, current string) (string, error) {
		label := prompt
		if current != "" {
			label = fmt.Sprintf("%s [%s]", prompt, current)
		}
		answer, err := getSimpleText(a.reader, label, a.out)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return current, nil
		}
		return answer, nil
	}

	if draft.Username, err = ask("Username", draft.Username); err != nil {
		return err
	}
	if draft.Email, err = ask("Email", draft.Email); err != nil {
		return err
	}
	if draft.Bio, err = ask("Bio", draft.Bio); err != nil {
		return err
	}
	if draft.Location, err = ask("Location", draft.Location); err != nil {
		return err
	}
	if draft.AvatarPath, err = getSimpleText(a.reader, "Avatar file (empty to keep)", a.out); err != nil {
		return err
	}

	if err := a.service.SaveProfile(ctx, draft); err != nil {
		if store.IsUniqueViolation(err) {
			fmt.Fprintln(a.out, "username: already taken")
			return nil
		}
		var fieldErr *social.FieldError
		if errors.As(err, &fieldErr) {
			fmt.Fprintf(a.out, "%s: %s\n", fieldErr.Field, fieldErr.Message)
			return nil
		}
		log.Printf("profile save error: %s", err.Error())
		return err
	}

	printlnFn("Profile saved")
	return nil
}
