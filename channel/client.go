package channel

import (
	"github.com/luca-patrignani/holdem-server/protocol"
)

// ClientChannel exposes the operations a client may initiate towards the server.
type ClientChannel struct {
	*Channel
}

// NewClientChannel wraps a transport for the client side of the conversation.
func NewClientChannel(tr Transport) *ClientChannel {
	return &ClientChannel{Channel: New(tr)}
}

// Authenticate submits credentials and waits for the verdict.
func (c *ClientChannel) Authenticate(username, password string) (protocol.Message, error) {
	err := c.Send(protocol.Authentication, protocol.StatusRequest, "", map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return protocol.Message{}, err
	}
	return c.Response(protocol.Authentication, 0)
}

// RecoverSession submits a previously saved token and waits for the verdict.
func (c *ClientChannel) RecoverSession(sessionToken string) (protocol.Message, error) {
	err := c.Send(protocol.ConnectionRecovery, protocol.StatusRequest, "", map[string]any{
		protocol.TokenAttr: sessionToken,
	})
	if err != nil {
		return protocol.Message{}, err
	}
	return c.Response(protocol.ConnectionRecovery, 0)
}

// AcceptMatchmaking confirms the server's matchmaking offer.
func (c *ClientChannel) AcceptMatchmaking() error {
	return c.Send(protocol.Matchmaking, protocol.StatusOK, "", nil)
}

// AcceptMatchReconnect confirms the server's reconnection offer.
func (c *ClientChannel) AcceptMatchReconnect() error {
	return c.Send(protocol.MatchReconnect, protocol.StatusOK, "", nil)
}

// AwaitGameStart blocks until the server announces the match.
func (c *ClientChannel) AwaitGameStart() error {
	_, err := c.Request(protocol.MatchStart, 0)
	return err
}

// SendPlayerMove answers a move solicitation.
func (c *ClientChannel) SendPlayerMove(action string, amount int) error {
	return c.Send(protocol.MatchPlay, protocol.StatusOK, "", map[string]any{
		"action": action,
		"amount": amount,
	})
}

// SendRequeueResponse answers the requeue negotiation.
func (c *ClientChannel) SendRequeueResponse(requeue bool) error {
	return c.Send(protocol.Requeue, protocol.StatusOK, "", map[string]any{
		"requeue": requeue,
	})
}
