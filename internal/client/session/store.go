// Package session owns the current bearer credential and user identity.
// The store is the only writer of the token; every other component reads it
// through the api.TokenSource interface. The session is persisted in the
// metadata repository so it survives restarts, mirroring the lifetime of
// the credential itself: set whole on login, cleared whole on logout.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/anavarro-dev/recetas/internal/client/models"
	"github.com/anavarro-dev/recetas/internal/client/repositories/metadata"
	"github.com/anavarro-dev/recetas/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Storage keys for the persisted session.
const (
	tokenKey  = "token"
	userIDKey = "user_id"
)

type Store struct {
	repo    metadata.Repository
	log     logging.Logger
	current *models.Session
	now     func() time.Time
}

func New(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log, now: time.Now}
}

// Token implements api.TokenSource. Returns "" when anonymous.
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns the active session, if any.
func (s *Store) Current() (models.Session, bool) {
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// UserID returns the authenticated user's identifier, or "" when anonymous.
func (s *Store) UserID() string {
	if s.current == nil {
		return ""
	}
	return s.current.UserID
}

// Set installs sess as the active session and persists it.
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	s.current = &sess

	if err := s.repo.Set(ctx, tokenKey, []byte(sess.Token)); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	if err := s.repo.Set(ctx, userIDKey, []byte(sess.UserID)); err != nil {
		return fmt.Errorf("persisting user id: %w", err)
	}
	return nil
}

// Clear drops the active session and its persisted copy. Other metadata
// keys (the locally tracked recency list among them) are left alone: their
// lifetime is independent of the credential.
func (s *Store) Clear(ctx context.Context) error {
	s.current = nil

	if err := s.repo.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if err := s.repo.Delete(ctx, userIDKey); err != nil {
		return fmt.Errorf("clearing user id: %w", err)
	}
	return nil
}

// Restore loads a previously persisted session, if one exists. A token whose
// exp claim is already past is discarded rather than restored; a token whose
// claims cannot be read is kept, since validation is the server's job.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.repo.Get(ctx, tokenKey)
	if err != nil {
		return err
	}
	userID, err := s.repo.Get(ctx, userIDKey)
	if err != nil {
		return err
	}
	if len(token) == 0 || len(userID) == 0 {
		return nil
	}

	if s.expired(string(token)) {
		s.log.Info(ctx, "persisted session expired, discarding")
		return s.Clear(ctx)
	}

	s.current = &models.Session{Token: string(token), UserID: string(userID)}
	return nil
}

// expired reports whether the token carries an exp claim in the past.
// The signature is not verified here; only the server can do that.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(s.now())
}
