package channel

import (
	"fmt"
	"sync"
	"time"

	"github.com/luca-patrignani/holdem-server/protocol"
)

// aliveTimeout bounds the wait for a heartbeat response in IsAlive.
const aliveTimeout = 3 * time.Second

// inboxSize bounds how many decoded messages may pile up before the reader
// goroutine blocks. Conversations are strictly request/response, so a small
// buffer absorbs heartbeats without growing unbounded.
const inboxSize = 16

type inbound struct {
	msg protocol.Message
	err error
}

// Channel runs the wire protocol over one Transport. A reader goroutine feeds
// decoded frames into an inbox so that Receive can wait with a deadline
// without poisoning the underlying stream.
type Channel struct {
	tr    Transport
	inbox chan inbound

	mu     sync.Mutex
	token  string
	closed bool
}

// New starts a channel over the given transport. The reader goroutine runs
// until the transport fails or Close is called.
func New(tr Transport) *Channel {
	c := &Channel{
		tr:    tr,
		inbox: make(chan inbound, inboxSize),
	}
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	defer close(c.inbox)
	for {
		data, err := c.tr.ReadMessage()
		if err != nil {
			c.inbox <- inbound{err: fmt.Errorf("%w: %v", protocol.ErrClosedConnection, err)}
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			// A peer speaking garbage is indistinguishable from a broken
			// stream: surface it as a closed connection and stop reading.
			c.inbox <- inbound{err: fmt.Errorf("%w: %v", protocol.ErrClosedConnection, err)}
			return
		}
		c.inbox <- inbound{msg: msg}
	}
}

// SetToken attaches the session token to every subsequent outbound message
// and requires it on every subsequent inbound one.
func (c *Channel) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// RemoteAddr returns the peer address for logs.
func (c *Channel) RemoteAddr() string { return c.tr.RemoteAddr() }

// Send writes one framed message. It fails with protocol.ErrClosedConnection
// once the stream is gone.
func (c *Channel) Send(state protocol.State, status protocol.Status, body string, attrs map[string]any) error {
	c.mu.Lock()
	token := c.token
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return protocol.ErrClosedConnection
	}

	msg := protocol.NewMessage(state, status, body, attrs, token)
	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", state, err)
	}
	if err := c.tr.WriteMessage(data); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrClosedConnection, err)
	}
	return nil
}

// Receive blocks for the next message and validates it. expected may be empty
// to accept any state; wantRequest selects the direction; timeout zero means
// block until the stream fails.
//
// Liveness-check requests arriving while waiting are answered transparently
// and the wait continues against the same deadline.
func (c *Channel) Receive(expected protocol.State, wantRequest bool, timeout time.Duration) (protocol.Message, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		var in inbound
		var ok bool
		select {
		case in, ok = <-c.inbox:
			if !ok {
				return protocol.Message{}, protocol.ErrClosedConnection
			}
		case <-deadline:
			return protocol.Message{}, protocol.ErrRequestTimeout
		}
		if in.err != nil {
			return protocol.Message{}, in.err
		}
		msg := in.msg

		c.mu.Lock()
		token := c.token
		c.mu.Unlock()

		if !msg.MatchesToken(token) {
			return protocol.Message{}, fmt.Errorf("%w: expected %q, got %q in %s",
				protocol.ErrTokenMismatch, token, msg.SessionToken(), msg)
		}
		if msg.IsConnectionEndRequest() {
			return protocol.Message{}, fmt.Errorf("%w by the other party: %s",
				protocol.ErrClosedConnection, msg.Body())
		}
		if msg.IsConnectionCheckRequest() {
			if err := c.Send(protocol.ConnectionCheck, protocol.StatusOK, "", nil); err != nil {
				return protocol.Message{}, err
			}
			continue
		}
		if expected != "" && msg.State() != expected {
			return protocol.Message{}, fmt.Errorf("%w: expected state %s, got %s",
				protocol.ErrUnexpectedMessage, expected, msg)
		}
		if wantRequest != msg.IsRequest() {
			if wantRequest {
				return protocol.Message{}, fmt.Errorf("%w: expected request, got response %s",
					protocol.ErrUnexpectedMessage, msg)
			}
			return protocol.Message{}, fmt.Errorf("%w: expected response, got request %s",
				protocol.ErrUnexpectedMessage, msg)
		}
		return msg, nil
	}
}

// Response waits for a response in the expected state.
func (c *Channel) Response(expected protocol.State, timeout time.Duration) (protocol.Message, error) {
	return c.Receive(expected, false, timeout)
}

// Request waits for a request, in the expected state when not empty.
func (c *Channel) Request(expected protocol.State, timeout time.Duration) (protocol.Message, error) {
	return c.Receive(expected, true, timeout)
}

// IsAlive sends a liveness-check request and waits briefly for the reply.
// Any failure or mismatch means the connection is broken. This catches dead
// peers that socket-level detection has not noticed yet.
func (c *Channel) IsAlive() bool {
	if err := c.Send(protocol.ConnectionCheck, protocol.StatusRequest, "", nil); err != nil {
		return false
	}
	resp, err := c.Response(protocol.ConnectionCheck, aliveTimeout)
	if err != nil {
		return false
	}
	return resp.IsOK()
}

// IsBroken is the negation of IsAlive.
func (c *Channel) IsBroken() bool { return !c.IsAlive() }

// EndConnection notifies the peer that the conversation is over, carrying the
// reason, and is best-effort by nature.
func (c *Channel) EndConnection(reason string) error {
	return c.Send(protocol.ConnectionEnd, protocol.StatusRequest, reason, nil)
}

// IsClosed reports whether Close has been called on this side. It says
// nothing about the peer; use IsAlive for that.
func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close tears down the transport. The reader goroutine exits on its next read.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.tr.Close()
}
