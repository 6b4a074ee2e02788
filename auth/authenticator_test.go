package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/protocol"
	"github.com/luca-patrignani/holdem-server/store"
)

func testSecret() []byte { return []byte("test-secret") }

func runAuthenticator(t *testing.T, mem *store.Memory) (*channel.ClientChannel, chan *channel.Session) {
	t.Helper()
	serverSide, clientSide := channel.Pipe()
	server := channel.NewServerChannel(serverSide)
	client := channel.NewClientChannel(clientSide)
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})

	result := make(chan *channel.Session, 1)
	go func() {
		a := NewAuthenticator(zap.NewNop(), mem, mem, NewTokens(testSecret()), server)
		session, _ := a.Run(context.Background())
		result <- session
	}()
	return client, result
}

func TestTokens_MintAndVerify(t *testing.T) {
	tokens := NewTokens(testSecret())

	tok, err := tokens.Mint("alice")
	require.NoError(t, err)

	username, err := tokens.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", username)

	// Every mint is a distinct token even for the same user.
	tok2, err := tokens.Mint("alice")
	require.NoError(t, err)
	require.NotEqual(t, tok, tok2)
}

func TestTokens_RejectsForeignSignature(t *testing.T) {
	tok, err := NewTokens([]byte("other-secret")).Mint("alice")
	require.NoError(t, err)

	_, err = NewTokens(testSecret()).Verify(tok)
	require.Error(t, err)
}

func TestAuthenticator_RegistersNewUser(t *testing.T) {
	mem := store.NewMemory()
	client, result := runAuthenticator(t, mem)

	resp, err := client.Authenticate("alice", "secret")
	require.NoError(t, err)
	require.True(t, resp.IsOK())
	require.Equal(t, "User successfully registered", resp.Body())
	token := resp.Attr(protocol.TokenAttr)
	require.NotEmpty(t, token)

	session := <-result
	require.NotNil(t, session)
	require.Equal(t, "alice", session.Username)
	require.Equal(t, token, session.Token)
	require.Equal(t, store.DefaultRank, session.Rank())

	stored, err := mem.Token(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, token, stored)
}

func TestAuthenticator_ThreeStrikes(t *testing.T) {
	mem := store.NewMemory()
	_, _, err := mem.Authenticate(context.Background(), "alice", "right")
	require.NoError(t, err)

	client, result := runAuthenticator(t, mem)

	for i := 0; i < 2; i++ {
		resp, err := client.Authenticate("alice", "wrong")
		require.NoError(t, err)
		require.False(t, resp.IsOK())
		require.Equal(t, "Invalid username or password", resp.Body())
	}

	// The third failure terminates the connection instead of rejecting.
	_, err = client.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, protocol.ErrClosedConnection)
	require.Nil(t, <-result)
}

func TestAuthenticator_RecoveryMintsReplacement(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	tokens := NewTokens(testSecret())

	_, _, err := mem.Authenticate(ctx, "bob", "pw")
	require.NoError(t, err)
	old, err := tokens.Mint("bob")
	require.NoError(t, err)
	require.NoError(t, mem.SetToken(ctx, "bob", old, TokenTTL))

	client, result := runAuthenticator(t, mem)

	resp, err := client.RecoverSession(old)
	require.NoError(t, err)
	require.True(t, resp.IsOK())

	replacement := resp.Attr(protocol.TokenAttr)
	require.NotEmpty(t, replacement)
	require.NotEqual(t, old, replacement)

	session := <-result
	require.NotNil(t, session)
	require.Equal(t, "bob", session.Username)

	// The old token is no longer the live session.
	stored, err := mem.Token(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, replacement, stored)
}

func TestAuthenticator_RecoveryWithSupersededToken(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	tokens := NewTokens(testSecret())

	_, _, err := mem.Authenticate(ctx, "bob", "pw")
	require.NoError(t, err)
	superseded, err := tokens.Mint("bob")
	require.NoError(t, err)
	current, err := tokens.Mint("bob")
	require.NoError(t, err)
	require.NoError(t, mem.SetToken(ctx, "bob", current, TokenTTL))

	client, result := runAuthenticator(t, mem)

	resp, err := client.RecoverSession(superseded)
	require.NoError(t, err)
	require.False(t, resp.IsOK())
	require.Equal(t, "Invalid or expired session token", resp.Body())

	// Recovery failures do not burn login attempts.
	resp, err = client.Authenticate("bob", "pw")
	require.NoError(t, err)
	require.True(t, resp.IsOK())
	require.NotNil(t, <-result)
}
