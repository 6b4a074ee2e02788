package channel

import (
	"time"

	"github.com/luca-patrignani/holdem-server/protocol"
)

// ServerChannel exposes the operations the server may initiate towards one
// client. It shares all validation and timeout machinery with ClientChannel
// through the embedded engine.
type ServerChannel struct {
	*Channel
}

// NewServerChannel wraps a transport for the server side of the conversation.
func NewServerChannel(tr Transport) *ServerChannel {
	return &ServerChannel{Channel: New(tr)}
}

// AcceptRecovery confirms a session recovery, delivering the replacement token.
func (s *ServerChannel) AcceptRecovery(body, sessionToken string) error {
	return s.Send(protocol.ConnectionRecovery, protocol.StatusOK, body, map[string]any{
		protocol.TokenAttr: sessionToken,
	})
}

// RejectRecovery denies a session recovery with a reason.
func (s *ServerChannel) RejectRecovery(body string) error {
	return s.Send(protocol.ConnectionRecovery, protocol.StatusError, body, nil)
}

// AcceptAuthentication confirms a login or registration, delivering the token.
func (s *ServerChannel) AcceptAuthentication(body, sessionToken string) error {
	return s.Send(protocol.Authentication, protocol.StatusOK, body, map[string]any{
		protocol.TokenAttr: sessionToken,
	})
}

// RejectAuthentication denies an authentication attempt with a reason.
func (s *ServerChannel) RejectAuthentication(body string) error {
	return s.Send(protocol.Authentication, protocol.StatusError, body, nil)
}

// RequestMatchmaking asks the client to confirm it wants to be queued.
func (s *ServerChannel) RequestMatchmaking() (bool, error) {
	if err := s.Send(protocol.Matchmaking, protocol.StatusRequest, "", nil); err != nil {
		return false, err
	}
	resp, err := s.Response(protocol.Matchmaking, 0)
	if err != nil {
		return false, err
	}
	return resp.IsOK(), nil
}

// RequestMatchReconnect offers the client a reconnection to its running match.
func (s *ServerChannel) RequestMatchReconnect() (bool, error) {
	if err := s.Send(protocol.MatchReconnect, protocol.StatusRequest, "", nil); err != nil {
		return false, err
	}
	resp, err := s.Response(protocol.MatchReconnect, 0)
	if err != nil {
		return false, err
	}
	return resp.IsOK(), nil
}

// NotifyGameStart tells the client its match is about to begin.
func (s *ServerChannel) NotifyGameStart() error {
	return s.Send(protocol.MatchStart, protocol.StatusRequest, "", nil)
}

// SendGameState pushes a display-only snapshot, already serialized, to the client.
func (s *ServerChannel) SendGameState(snapshot string) error {
	return s.Send(protocol.MatchDisplay, protocol.StatusRequest, "", map[string]any{
		"gameState": snapshot,
	})
}

// GetPlayerMove solicits a move from the client, bounded by timeout. The
// snapshot accompanies the request so the client can render the decision.
func (s *ServerChannel) GetPlayerMove(body, snapshot string, timeout time.Duration) (protocol.Message, error) {
	err := s.Send(protocol.MatchPlay, protocol.StatusRequest, body, map[string]any{
		"gameState": snapshot,
	})
	if err != nil {
		return protocol.Message{}, err
	}
	return s.Response(protocol.MatchPlay, timeout)
}

// SendRequeueRequest asks the client whether it wants another match, bounded
// by timeout.
func (s *ServerChannel) SendRequeueRequest(timeout time.Duration) (protocol.Message, error) {
	if err := s.Send(protocol.Requeue, protocol.StatusRequest, "", nil); err != nil {
		return protocol.Message{}, err
	}
	return s.Response(protocol.Requeue, timeout)
}
