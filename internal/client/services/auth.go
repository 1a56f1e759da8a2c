// Package services contains the application services of the recetas client:
// session handling, recency tracking, favorites reconciliation, recipe CRUD,
// and the session-exit flow. Services sit between the gateway and the CLI;
// every authenticated operation checks session presence first and degrades
// to a no-op instead of issuing a malformed request.
package services

import (
	"context"
	"fmt"

	"github.com/anavarro-dev/recetas/internal/client/api"
	"github.com/anavarro-dev/recetas/internal/client/session"
	"github.com/anavarro-dev/recetas/internal/logging"
)

// AuthService manages the session lifecycle.
//
// Contract:
//   - Login: authenticate and install the session.
//   - Register: create an account; on success, log in with the same
//     credentials as the final step. No session is established when
//     registration fails.
//   - Logout: destroy the local session. No network call; always succeeds
//     apart from local persistence errors.
//   - LogoutWithPersistence: best-effort server notification, then Logout.
//     The notification lets the server retain or clean up session-scoped
//     state (the server-synchronized recency list) before the credential
//     is gone; its failure is logged and swallowed.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
	LogoutWithPersistence(ctx context.Context) error
}

type authService struct {
	client   api.Client
	sessions *session.Store
	log      logging.Logger
}

// NewAuthService constructs an AuthService bound to the given gateway and
// session store.
func NewAuthService(client api.Client, sessions *session.Store, log logging.Logger) AuthService {
	return &authService{client: client, sessions: sessions, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := a.sessions.Set(ctx, *sess); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	a.log.Info(ctx, "session established", "user", sess.UserID)
	return nil
}

func (a *authService) Register(ctx context.Context, username, email, password string) error {
	if err := a.client.Register(ctx, username, email, password); err != nil {
		return err
	}
	// Registration does not yield a token; logging in with the same
	// credentials is the final step of a successful registration.
	return a.Login(ctx, email, password)
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.log.Info(ctx, "session cleared")
	return nil
}

func (a *authService) LogoutWithPersistence(ctx context.Context) error {
	if _, ok := a.sessions.Current(); ok {
		if err := a.client.Logout(ctx); err != nil {
			a.log.Warn(ctx, "logout notification failed", "error", err)
		}
	}
	return a.Logout(ctx)
}
