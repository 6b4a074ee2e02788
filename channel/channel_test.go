package channel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/holdem-server/protocol"
)

func newPair(t *testing.T) (*ServerChannel, *ClientChannel) {
	t.Helper()
	serverSide, clientSide := Pipe()
	server := NewServerChannel(serverSide)
	client := NewClientChannel(clientSide)
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return server, client
}

func TestSendReceive(t *testing.T) {
	server, client := newPair(t)

	require.NoError(t, client.Send(protocol.Authentication, protocol.StatusRequest, "", map[string]any{
		"username": "alice",
		"password": "pw",
	}))

	msg, err := server.Request(protocol.Authentication, time.Second)
	require.NoError(t, err)
	require.Equal(t, "alice", msg.Attr("username"))
	require.True(t, msg.IsRequest())
}

func TestReceive_Timeout_LeavesConnectionUsable(t *testing.T) {
	server, client := newPair(t)

	_, err := server.Request("", 20*time.Millisecond)
	require.ErrorIs(t, err, protocol.ErrRequestTimeout)
	require.NotErrorIs(t, err, protocol.ErrClosedConnection)

	// The timed-out wait must not have consumed the connection.
	require.NoError(t, client.AcceptMatchmaking())
	msg, err := server.Response(protocol.Matchmaking, time.Second)
	require.NoError(t, err)
	require.True(t, msg.IsOK())
}

func TestReceive_ConnectionEndCarriesReason(t *testing.T) {
	server, client := newPair(t)

	require.NoError(t, client.EndConnection("done for today"))

	_, err := server.Request("", time.Second)
	require.ErrorIs(t, err, protocol.ErrClosedConnection)
	require.Contains(t, err.Error(), "done for today")
}

func TestReceive_HeartbeatIsInvisible(t *testing.T) {
	server, client := newPair(t)

	// The client probes liveness while the server is waiting for a
	// matchmaking answer; the heartbeat must be answered transparently.
	done := make(chan bool, 1)
	go func() { done <- client.IsAlive() }()

	go func() {
		// Give the heartbeat a moment to land first, then answer.
		time.Sleep(50 * time.Millisecond)
		client.AcceptMatchmaking()
	}()

	msg, err := server.Response(protocol.Matchmaking, 2*time.Second)
	require.NoError(t, err)
	require.True(t, msg.IsOK())
	require.Equal(t, protocol.Matchmaking, msg.State())
	require.True(t, <-done)
}

func TestReceive_TokenMismatch(t *testing.T) {
	server, client := newPair(t)
	server.SetToken("expected-token")

	// Client never learned the token, so its message fails validation.
	require.NoError(t, client.AcceptMatchmaking())

	_, err := server.Response(protocol.Matchmaking, time.Second)
	require.ErrorIs(t, err, protocol.ErrTokenMismatch)
}

func TestReceive_TokenAttachedOnceSet(t *testing.T) {
	server, client := newPair(t)
	server.SetToken("tok-1")
	client.SetToken("tok-1")

	require.NoError(t, client.AcceptMatchmaking())
	msg, err := server.Response(protocol.Matchmaking, time.Second)
	require.NoError(t, err)
	require.Equal(t, "tok-1", msg.SessionToken())
}

func TestReceive_UnexpectedState(t *testing.T) {
	server, client := newPair(t)

	require.NoError(t, client.Send(protocol.Requeue, protocol.StatusOK, "", nil))

	_, err := server.Response(protocol.Matchmaking, time.Second)
	require.ErrorIs(t, err, protocol.ErrUnexpectedMessage)
}

func TestReceive_WrongDirection(t *testing.T) {
	server, client := newPair(t)

	require.NoError(t, client.Send(protocol.Matchmaking, protocol.StatusRequest, "", nil))

	_, err := server.Response(protocol.Matchmaking, time.Second)
	require.ErrorIs(t, err, protocol.ErrUnexpectedMessage)
}

func TestReceive_MalformedFrameIsClosedConnection(t *testing.T) {
	serverSide, clientSide := Pipe()
	server := NewServerChannel(serverSide)
	defer server.Close()

	require.NoError(t, clientSide.WriteMessage([]byte("this is not a message")))

	_, err := server.Request("", time.Second)
	require.ErrorIs(t, err, protocol.ErrClosedConnection)
}

func TestIsAlive_DeadPeer(t *testing.T) {
	serverSide, clientSide := Pipe()
	server := NewServerChannel(serverSide)
	client := NewClientChannel(clientSide)
	require.NoError(t, client.Close())

	require.False(t, server.IsAlive())
	require.True(t, server.IsBroken())
}

func TestSend_AfterClose(t *testing.T) {
	server, _ := newPair(t)
	require.NoError(t, server.Close())

	err := server.Send(protocol.Matchmaking, protocol.StatusRequest, "", nil)
	require.ErrorIs(t, err, protocol.ErrClosedConnection)
}

func TestServerClientRoundTrips(t *testing.T) {
	server, client := newPair(t)

	go func() {
		msg, err := client.Request(protocol.Matchmaking, time.Second)
		if err == nil && msg.IsRequest() {
			client.AcceptMatchmaking()
		}
	}()

	ok, err := server.RequestMatchmaking()
	require.NoError(t, err)
	require.True(t, ok)

	go func() {
		msg, err := client.Request(protocol.MatchPlay, time.Second)
		if err == nil && msg.HasAttr("gameState") {
			client.SendPlayerMove("bet", 100)
		}
	}()

	move, err := server.GetPlayerMove("your turn", `{"pot":0}`, time.Second)
	require.NoError(t, err)
	require.Equal(t, "bet", move.Attr("action"))
	amount, ok2 := move.IntAttr("amount")
	require.True(t, ok2)
	require.Equal(t, 100, amount)
}

func TestSessionRank(t *testing.T) {
	serverSide, _ := Pipe()
	sess := NewSession("alice", "tok", NewServerChannel(serverSide), 1000)
	require.Equal(t, 1000, sess.Rank())
	sess.SetRank(1050)
	require.Equal(t, 1050, sess.Rank())
}

func TestPipe_CloseFailsBothSides(t *testing.T) {
	a, b := Pipe()
	require.NoError(t, a.Close())
	_, err := b.ReadMessage()
	require.Error(t, err)
	require.True(t, errors.Is(err, errPipeClosed))
}
