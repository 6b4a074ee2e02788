package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/protocol"
)

// admitSession opens a pipe-backed session, keeps the client side answering
// heartbeats and hands the server side to admit.
func admitSession(t *testing.T, srv *Server, username string) *channel.Session {
	t.Helper()
	serverSide, clientSide := channel.Pipe()
	server := channel.NewServerChannel(serverSide)
	client := channel.NewClientChannel(clientSide)
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	go func() {
		if msg, err := client.Request(protocol.Matchmaking, 5*time.Second); err == nil && msg.IsRequest() {
			client.AcceptMatchmaking()
		}
		for {
			if _, err := client.Request("", time.Minute); err != nil {
				return
			}
		}
	}()
	sess := channel.NewSession(username, "tok-"+username, server, 1000)
	srv.admit(sess)
	return sess
}

func TestAdmitSweepsClosedSessions(t *testing.T) {
	srv, err := New(context.Background(), zap.NewNop(), DefaultConfig())
	require.NoError(t, err)

	alice := admitSession(t, srv, "alice")
	admitSession(t, srv, "bob")

	alice.Channel.Close()
	admitSession(t, srv, "carol")

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.NotContains(t, srv.live, "alice")
	require.Contains(t, srv.live, "bob")
	require.Contains(t, srv.live, "carol")
}
