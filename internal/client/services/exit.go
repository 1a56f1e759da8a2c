package services

import "context"

// ExitChoice is the user's answer to the session-exit prompt: should the
// recently-viewed state be kept on the server?
type ExitChoice int

const (
	// ChoiceCancel dismisses the prompt; the session is left untouched.
	ChoiceCancel ExitChoice = iota

	// ChoiceKeep ("yes") keeps server-side state: the session is cleared
	// locally with no logout notification.
	ChoiceKeep

	// ChoiceDiscard ("no") notifies the server so it can clean up
	// session-scoped state, then clears the session locally.
	ChoiceDiscard
)

// ExitCoordinator runs the two-outcome logout flow. It holds no state
// beyond whether the prompt is currently open; both non-cancel resolutions
// converge on an empty session store.
type ExitCoordinator struct {
	auth AuthService
	open bool
}

func NewExitCoordinator(auth AuthService) *ExitCoordinator {
	return &ExitCoordinator{auth: auth}
}

// Begin opens the prompt.
func (c *ExitCoordinator) Begin() {
	c.open = true
}

// Open reports whether the prompt is awaiting an answer.
func (c *ExitCoordinator) Open() bool {
	return c.open
}

// Resolve closes the prompt and applies the choice. Cancellation is a
// no-op. With no prompt open, Resolve does nothing.
func (c *ExitCoordinator) Resolve(ctx context.Context, choice ExitChoice) error {
	if !c.open {
		return nil
	}
	c.open = false

	switch choice {
	case ChoiceKeep:
		return c.auth.Logout(ctx)
	case ChoiceDiscard:
		return c.auth.LogoutWithPersistence(ctx)
	default:
		return nil
	}
}
