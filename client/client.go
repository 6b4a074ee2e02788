package client

import (
	"context"
	"log/slog"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/holdem"
	"github.com/luca-patrignani/holdem-server/protocol"
)

// UI is the interactive surface of the client. The terminal implementation
// lives in Terminal; tests substitute a scripted one.
type UI interface {
	// Credentials prompts for a username and password.
	Credentials() (username, password string, err error)
	// ShowMessage prints a server or status message.
	ShowMessage(body string)
	// RenderTable draws the table as the viewer sees it.
	RenderTable(snap holdem.Snapshot)
	// Move prompts for the viewer's move. It may block on input for a long
	// time; the caller races it against the server closing the turn.
	Move(snap holdem.Snapshot, prompt string) (action string, amount int, err error)
	// Requeue asks whether the player wants another match.
	Requeue() (bool, error)
}

// Client drives one connection through sign-in, the lobby and matches until
// the server closes the conversation or the player declines a requeue.
type Client struct {
	log    *slog.Logger
	ch     *channel.ClientChannel
	ui     UI
	tokens *TokenFile

	frames  chan protocol.Message
	readErr error
}

// New assembles a client over an established channel.
func New(log *slog.Logger, ch *channel.ClientChannel, ui UI, tokens *TokenFile) *Client {
	return &Client{
		log:    log,
		ch:     ch,
		ui:     ui,
		tokens: tokens,
		frames: make(chan protocol.Message),
	}
}

// Run signs in, then serves the lobby until the conversation ends. The
// returned error wraps protocol.ErrClosedConnection when the server ended
// the connection; its message carries the server's reason.
func (c *Client) Run(ctx context.Context) error {
	if err := c.signIn(); err != nil {
		return err
	}
	go c.pump(ctx)
	return c.lobby(ctx)
}

// signIn tries session recovery with the saved token first, then falls back
// to the login prompt. The server allows three failed attempts before it
// hangs up.
func (c *Client) signIn() error {
	if token := c.tokens.Load(); token != "" {
		msg, err := c.ch.RecoverSession(token)
		if err != nil {
			return err
		}
		if msg.IsOK() {
			return c.acceptSignIn(msg)
		}
		c.ui.ShowMessage(msg.Body())
		_ = c.tokens.Clear()
	}

	for {
		username, password, err := c.ui.Credentials()
		if err != nil {
			return err
		}
		msg, err := c.ch.Authenticate(username, password)
		if err != nil {
			return err
		}
		if msg.IsOK() {
			return c.acceptSignIn(msg)
		}
		c.ui.ShowMessage(msg.Body())
	}
}

func (c *Client) acceptSignIn(msg protocol.Message) error {
	token := msg.SessionToken()
	c.ch.SetToken(token)
	if err := c.tokens.Save(token); err != nil {
		c.log.Warn("could not save session token", "error", err)
	}
	c.ui.ShowMessage(msg.Body())
	return nil
}

// pump owns the receive side after sign-in. It answers liveness checks
// implicitly and hands every other frame to the state machine. The final
// receive error, connection-end reasons included, lands in readErr before
// the channel closes.
func (c *Client) pump(ctx context.Context) {
	defer close(c.frames)
	for {
		msg, err := c.ch.Request("", 0)
		if err != nil {
			c.readErr = err
			return
		}
		select {
		case c.frames <- msg:
		case <-ctx.Done():
			c.readErr = ctx.Err()
			return
		}
	}
}

func (c *Client) lobby(ctx context.Context) error {
	for {
		var msg protocol.Message
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok = <-c.frames:
			if !ok {
				return c.readErr
			}
		}

		switch msg.State() {
		case protocol.Matchmaking:
			c.ui.ShowMessage("Looking for a match...")
			if err := c.ch.AcceptMatchmaking(); err != nil {
				return err
			}
		case protocol.MatchReconnect:
			c.ui.ShowMessage("Rejoining your running match...")
			if err := c.ch.AcceptMatchReconnect(); err != nil {
				return err
			}
		case protocol.MatchStart:
			c.ui.ShowMessage("Match found. Shuffling up and dealing.")
		case protocol.MatchDisplay:
			c.renderFrame(msg)
		case protocol.MatchPlay:
			if err := c.playTurn(msg); err != nil {
				return err
			}
		case protocol.Requeue:
			again, err := c.ui.Requeue()
			if err != nil {
				again = false
			}
			if err := c.ch.SendRequeueResponse(again); err != nil {
				return err
			}
			if !again {
				return nil
			}
		default:
			c.log.Warn("ignoring unexpected frame", "state", string(msg.State()))
		}
	}
}

func (c *Client) renderFrame(msg protocol.Message) {
	snap, err := holdem.DecodeSnapshot(msg.Attr("gameState"))
	if err != nil {
		c.log.Warn("undecodable game state", "error", err)
		return
	}
	c.ui.RenderTable(snap)
}

// playTurn prompts for a move while still listening to the wire: the server
// folds slow players and ends their connection, and that notice must win the
// race against a prompt nobody is answering.
func (c *Client) playTurn(msg protocol.Message) error {
	snap, err := holdem.DecodeSnapshot(msg.Attr("gameState"))
	if err != nil {
		return err
	}
	c.ui.RenderTable(snap)

	type moveResult struct {
		action string
		amount int
		err    error
	}
	moveCh := make(chan moveResult, 1)
	go func() {
		action, amount, err := c.ui.Move(snap, msg.Body())
		moveCh <- moveResult{action: action, amount: amount, err: err}
	}()

	for {
		select {
		case mv := <-moveCh:
			if mv.err != nil {
				return mv.err
			}
			return c.ch.SendPlayerMove(mv.action, mv.amount)
		case frame, ok := <-c.frames:
			if !ok {
				return c.readErr
			}
			if frame.State() == protocol.MatchDisplay {
				c.renderFrame(frame)
			}
		}
	}
}
