package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/avolkov/pawshare/internal/common"
	"github.com/avolkov/pawshare/internal/models"
	"github.com/avolkov/pawshare/internal/querycache"
	"github.com/avolkov/pawshare/internal/social"
)

// galleryView is the gallery's local-only state while mounted: the current
// post numbering and the cache subscriptions. All of it is dropped on 'back'.
type galleryView struct {
	app    *App
	me     string // empty when signed out
	posts  []*models.Post
	stale  bool
	unsubs []func()
}

// Gallery mounts the gallery view: it subscribes to the posts, reactions and
// comments keys so mutations made while the view is open re-render it, runs
// the view's command loop, and unsubscribes on 'back'.
func (a *App) Gallery(ctx context.Context) error {
	g := &galleryView{app: a}
	if session := a.currentSession(); session != nil {
		g.me = session.AccountID
	}

	for _, key := range []querycache.Key{social.KeyPosts, social.KeyReactions, social.KeyComments} {
		g.unsubs = append(g.unsubs, a.cache.Subscribe(key, func(any) { g.stale = true }))
	}
	defer g.unmount()

	if err := g.render(ctx); err != nil {
		log.Printf("gallery error: %s", err.Error())
		return err
	}

	for {
		a.showNotifications()
		line, err := getSimpleText(a.reader, "gallery", a.out)
		if err != nil {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch parts[0] {
		case "back", "b":
			return nil
		case "refresh", "r":
			g.stale = true
		case "react":
			cmdErr = g.react(ctx, parts[1:])
		case "comment":
			cmdErr = g.comment(ctx, parts[1:])
		case "delete":
			cmdErr = g.delete(ctx, parts[1:])
		default:
			printlnFn("Gallery commands: react <n>, comment <n> <text>, delete <n>, refresh, back")
			continue
		}

		// The session can end while the view is open, e.g. an expired
		// refresh token discovered during a write. Back to the sign-in
		// prompt; local view state is dropped on the way out.
		if errors.Is(cmdErr, common.ErrNotSignedIn) {
			printlnFn("Your session has ended. Sign in to continue.")
			return nil
		}

		// Subscriptions mark the view stale when a key it renders is
		// refreshed; failed mutations leave the cache untouched and
		// nothing re-renders.
		if !g.stale {
			continue
		}
		if err := g.render(ctx); err != nil {
			log.Printf("gallery error: %s", err.Error())
		}
	}
}

func (g *galleryView) unmount() {
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
	g.posts = nil
}

func (g *galleryView) render(ctx context.Context) error {
	posts, err := g.app.service.Posts(ctx)
	if err != nil {
		return err
	}
	reactions, err := g.app.service.Reactions(ctx)
	if err != nil {
		return err
	}
	comments, err := g.app.service.Comments(ctx)
	if err != nil {
		return err
	}

	g.posts = posts
	g.stale = false
	return renderGallery(g.app.out, posts, reactions, comments, g.me)
}

// pick resolves a one-based post number from the current rendering.
func (g *galleryView) pick(arg string) (*models.Post, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(g.posts) {
		printlnFn("No such post:", arg)
		return nil, false
	}
	return g.posts[n-1], true
}

func (g *galleryView) react(ctx context.Context, args []string) error {
	if g.me == "" {
		printlnFn("Sign in to react")
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage: react <n>")
		return nil
	}
	post, ok := g.pick(args[0])
	if !ok {
		return nil
	}
	return g.app.service.ToggleReaction(ctx, post.ID)
}

func (g *galleryView) comment(ctx context.Context, args []string) error {
	if g.me == "" {
		printlnFn("Sign in to comment")
		return nil
	}
	if len(args) < 2 {
		printlnFn("Usage: comment <n> <text>")
		return nil
	}
	post, ok := g.pick(args[0])
	if !ok {
		return nil
	}
	err := g.app.service.AddComment(ctx, post.ID, strings.Join(args[1:], " "))
	var fieldErr *social.FieldError
	if errors.As(err, &fieldErr) {
		printlnFn(fieldErr.Message)
		return nil
	}
	return err
}

func (g *galleryView) delete(ctx context.Context, args []string) error {
	if g.me == "" {
		printlnFn("Sign in to delete your posts")
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage: delete <n>")
		return nil
	}
	post, ok := g.pick(args[0])
	if !ok {
		return nil
	}
	// Advisory gate only; the store rejects foreign deletes regardless.
	if post.ProfileID != g.me {
		printlnFn("You can only delete your own posts")
		return nil
	}
	err := g.app.service.DeletePost(ctx, post.ID)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("Post not found")
		return nil
	}
	return err
}

// renderGallery writes the gallery listing. Reactions, counts included, are
// shown only for a signed-in viewer; comments themselves are always visible.
func renderGallery(w io.Writer, posts []*models.Post, reactions []*models.Reaction,
	comments []*models.Comment, me string) error {

	if _, err := fmt.Fprintf(w, "--- Gallery (%d posts) ---\n", len(posts)); err != nil {
		return err
	}

	for i, post := range posts {
		fmt.Fprintf(w, "[%d] %s: %s\n", i+1, post.PetName, post.Caption)

		details := []string{"by " + post.AuthorUsername}
		if post.PetBreed != "" {
			details = append(details, post.PetBreed)
		}
		if post.PetAge != "" {
			details = append(details, post.PetAge)
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(details, " · "))
		fmt.Fprintf(w, "    photo: %s\n", post.PhotoURL)

		// Reactions are a signed-in affordance; anonymous viewers do not
		// see the count either.
		if me != "" {
			count := 0
			mine := false
			for _, r := range reactions {
				if r.PostID == post.ID {
					count++
					if r.ProfileID == me {
						mine = true
					}
				}
			}
			line := fmt.Sprintf("    ♥ %d", count)
			if mine {
				line += " (you reacted)"
			}
			fmt.Fprintln(w, line)
		}

		for _, c := range comments {
			if c.PostID == post.ID {
				fmt.Fprintf(w, "      %s: %s\n", c.AuthorUsername, c.Content)
			}
		}
	}

	if me != "" {
		fmt.Fprintln(w, "(commands: react <n>, comment <n> <text>, delete <n>, refresh, back)")
	} else {
		fmt.Fprintln(w, "(commands: refresh, back; sign in to react or comment)")
	}
	return nil
}
