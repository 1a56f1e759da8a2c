package api

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an authenticated operation is
// attempted with no bearer token. No network request is made in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthenticationError reports a failed login. Message carries the
// server-supplied diagnostic, or a generic fallback when the server sent none.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// RegistrationError reports a failed registration (duplicate or invalid).
type RegistrationError struct {
	Message string
}

func (e *RegistrationError) Error() string {
	return e.Message
}

// GatewayError reports a failed recipe/recency/favorite call: either the
// transport failed, or the server answered with a returnCode other than
// SUCCESS. Message holds the user-facing diagnostic when one was supplied.
type GatewayError struct {
	Op      string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
