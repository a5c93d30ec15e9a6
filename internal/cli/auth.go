package cli

import (
	"context"
	"errors"
	"log"

	"github.com/avolkov/pawshare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates a new account.
// On success the user is signed in immediately. The password byte slice is
// wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.identity.Register(ctx, email, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Welcome! Use 'editprofile' to pick a username.")
	return nil
}

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.identity.Login(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Wrong email or password")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	printlnFn("Login successful")
	return nil
}

// Logout revokes the session. Local view state is already gone: views drop
// it on unmount, and the REPL holds none.
func (a *App) Logout(ctx context.Context) error {
	a.identity.Logout(ctx)
	printlnFn("Logged out")
	return nil
}
