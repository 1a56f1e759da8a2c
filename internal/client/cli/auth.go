package cli

import (
	"context"
	"os"
	"strings"

	"github.com/anavarro-dev/recetas/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates a new
// account. A successful registration logs in with the same credentials as
// its final step; a failed one leaves the session untouched and makes no
// login attempt.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if username == "" || email == "" || len(password) == 0 {
		printlnFn("Username, email and password must not be empty")
		return nil
	}

	if err := a.auth.Register(ctx, username, email, string(password)); err != nil {
		printlnFn("Registration failed:", err.Error())
		return nil
	}

	printlnFn("Welcome, " + username + "!")
	a.afterLogin(ctx)
	return nil
}

// Login prompts for credentials and authenticates. On success the favorite
// set and (under the synchronized backing) the recency list are fetched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if email == "" || len(password) == 0 {
		printlnFn("Email and password must not be empty")
		return nil
	}

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		printlnFn("Login failed:", err.Error())
		return nil
	}

	printlnFn("Login successful")
	a.afterLogin(ctx)
	return nil
}

// Logout runs the session-exit flow: a two-outcome prompt deciding whether
// the server keeps the session-scoped recency state. Answering "y" keeps it
// (the session is cleared locally, no server call); "n" notifies the server
// so it can clean up; anything else cancels and the session stays.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	a.exit.Begin()

	answer, err := getSimpleText(a.reader, "Keep your recently viewed recipes on the server? (y/n, anything else cancels)", os.Stdout)
	if err != nil {
		_ = a.exit.Resolve(ctx, services.ChoiceCancel)
		return err
	}

	choice := services.ChoiceCancel
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		choice = services.ChoiceKeep
	case "n", "no":
		choice = services.ChoiceDiscard
	}

	if err := a.exit.Resolve(ctx, choice); err != nil {
		printlnFn("Logout failed:", err.Error())
		return nil
	}

	if choice == services.ChoiceCancel {
		printlnFn("Logout cancelled")
	} else {
		a.lastShown = nil
		printlnFn("Logged out")
	}
	return nil
}
