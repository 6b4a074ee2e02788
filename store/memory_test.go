package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate_RegistersUnknownUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	user, created, err := m.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, DefaultRank, user.Rank)

	// Second login with the right password is not a registration.
	_, created, err = m.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	require.False(t, created)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, _, err := m.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)

	_, _, err = m.Authenticate(ctx, "alice", "guess")
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestRankLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, _, err := m.Authenticate(ctx, "bob", "pw")
	require.NoError(t, err)

	require.NoError(t, m.AddRank(ctx, "bob", 75))
	require.NoError(t, m.AddRank(ctx, "bob", -25))

	rank, err := m.Rank(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, DefaultRank+50, rank)

	_, err = m.Rank(ctx, "nobody")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestSessionReplacementInvalidatesOldToken(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetToken(ctx, "alice", "tok-1", time.Hour))
	require.NoError(t, m.SetToken(ctx, "alice", "tok-2", time.Hour))

	token, err := m.Token(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
}

func TestSessionExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SetToken(ctx, "alice", "tok", -time.Second))

	_, err := m.Token(ctx, "alice")
	require.ErrorIs(t, err, ErrUnknownUser)

	require.NoError(t, m.SetToken(ctx, "alice", "tok", time.Hour))
	require.NoError(t, m.ClearToken(ctx, "alice"))
	_, err = m.Token(ctx, "alice")
	require.ErrorIs(t, err, ErrUnknownUser)
}
