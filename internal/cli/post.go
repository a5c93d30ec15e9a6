package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/avolkov/pawshare/internal/filex"
	"github.com/avolkov/pawshare/internal/social"
)

// Post walks the user through the post form: subject fields, caption, and a
// local image whose preview is shown before anything leaves the machine.
// Validation failures print inline and keep the draft local; only a valid
// draft triggers the upload-and-insert mutation.
func (a *App) Post(ctx context.Context) error {
	draft := social.PostDraft{}

	var err error
	if draft.PetName, err = getSimpleText(a.reader, "Pet name", a.out); err != nil {
		return err
	}
	if draft.PetBreed, err = getSimpleText(a.reader, "Breed (optional)", a.out); err != nil {
		return err
	}
	if draft.PetAge, err = getSimpleText(a.reader, "Age (optional)", a.out); err != nil {
		return err
	}
	if draft.Caption, err = getSimpleText(a.reader, "Caption", a.out); err != nil {
		return err
	}
	if draft.ImagePath, err = getSimpleText(a.reader, "Image file", a.out); err != nil {
		return err
	}

	if draft.ImagePath != "" {
		if data, ext, err := filex.ReadImage(draft.ImagePath); err == nil {
			fmt.Fprintf(a.out, "preview: %s\n", truncate(filex.DataURL(data, ext), 64))
		}
	}

	if err := a.service.CreatePost(ctx, draft); err != nil {
		var fieldErr *social.FieldError
		if errors.As(err, &fieldErr) {
			fmt.Fprintf(a.out, "%s: %s\n", fieldErr.Field, fieldErr.Message)
			return nil
		}
		log.Printf("post error: %s", err.Error())
		return err
	}

	printlnFn("Posted!")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
