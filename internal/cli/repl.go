package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	showNotifications()
	Gallery(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Post(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the PawShare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The command set depends on the sign-in state. The gate is advisory only:
// signed-out users still browse the gallery, and the store layer is what
// actually rejects unauthorized writes.
//
//	Signed out:  help, gallery, register, login, exit | quit
//	Signed in:   plus post, profile, editprofile, logout
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.showNotifications()
		printlnFn(fmt.Sprintf("paw %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (g)allery, post, profile, editprofile, logout, exit")
			} else {
				printlnFn("Available commands: (g)allery, register, login, exit")
			}

		case "g", "gallery":
			_ = a.Gallery(ctx)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "post":
			if !a.isLoggedIn() {
				printlnFn("Sign in to post")
				continue
			}
			_ = a.Post(ctx)

		case "profile":
			if !a.isLoggedIn() {
				printlnFn("Sign in to view your profile")
				continue
			}
			_ = a.ShowProfile(ctx)

		case "editprofile":
			if !a.isLoggedIn() {
				printlnFn("Sign in to edit your profile")
				continue
			}
			_ = a.EditProfile(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
