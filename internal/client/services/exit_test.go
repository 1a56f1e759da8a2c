package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCoordinator_KeepLogsOutWithoutServerCall(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	sessions := newSessionStore(t, true)
	coord := NewExitCoordinator(NewAuthService(client, sessions, testLogger()))

	coord.Begin()
	require.True(t, coord.Open())

	require.NoError(t, coord.Resolve(ctx, ChoiceKeep))

	require.False(t, coord.Open())
	require.Empty(t, client.calls)
	require.Empty(t, sessions.Token())
}

func TestExitCoordinator_DiscardNotifiesServerExactlyOnce(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	sessions := newSessionStore(t, true)
	coord := NewExitCoordinator(NewAuthService(client, sessions, testLogger()))

	coord.Begin()
	require.NoError(t, coord.Resolve(ctx, ChoiceDiscard))

	require.Equal(t, []string{"logout"}, client.calls)
	require.Empty(t, sessions.Token())
}

func TestExitCoordinator_CancelLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	sessions := newSessionStore(t, true)
	coord := NewExitCoordinator(NewAuthService(client, sessions, testLogger()))

	coord.Begin()
	require.NoError(t, coord.Resolve(ctx, ChoiceCancel))

	require.False(t, coord.Open())
	require.Empty(t, client.calls)
	require.Equal(t, "tok123", sessions.Token())
}

func TestExitCoordinator_ResolveWithoutBeginIsNoop(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	sessions := newSessionStore(t, true)
	coord := NewExitCoordinator(NewAuthService(client, sessions, testLogger()))

	require.NoError(t, coord.Resolve(ctx, ChoiceKeep))
	require.Equal(t, "tok123", sessions.Token())
}
