package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/protocol"
	"github.com/luca-patrignani/holdem-server/store"
)

// requestTimeout bounds how long the peer may take to send each
// authentication request.
const requestTimeout = 30 * time.Second

// maxAttempts is how many failed logins the peer gets before the
// connection is terminated.
const maxAttempts = 3

// Authenticator drives the authentication conversation on one connection.
type Authenticator struct {
	log      *zap.Logger
	creds    store.CredentialStore
	sessions store.SessionStore
	tokens   *Tokens
	ch       *channel.ServerChannel

	attempts int
}

// NewAuthenticator wires an authenticator for one freshly accepted channel.
func NewAuthenticator(log *zap.Logger, creds store.CredentialStore, sessions store.SessionStore, tokens *Tokens, ch *channel.ServerChannel) *Authenticator {
	return &Authenticator{
		log:      log.With(zap.String("addr", ch.RemoteAddr())),
		creds:    creds,
		sessions: sessions,
		tokens:   tokens,
		ch:       ch,
		attempts: maxAttempts,
	}
}

// Run handles requests until the peer authenticates, runs out of attempts,
// times out or disconnects. A nil session with a nil error means the
// conversation ended without an authenticated user; the caller just drops
// the connection.
func (a *Authenticator) Run(ctx context.Context) (*channel.Session, error) {
	for a.attempts > 0 {
		if ctx.Err() != nil {
			a.terminate("Server is shutting down")
			return nil, ctx.Err()
		}

		req, err := a.ch.Request("", requestTimeout)
		switch {
		case errors.Is(err, protocol.ErrRequestTimeout):
			a.log.Info("authentication timed out")
			return nil, nil
		case errors.Is(err, protocol.ErrClosedConnection):
			a.log.Info("connection closed during authentication")
			return nil, nil
		case err != nil:
			a.terminate(err.Error())
			a.log.Info("bad request during authentication", zap.Error(err))
			return nil, nil
		}

		var session *channel.Session
		switch req.State() {
		case protocol.Authentication:
			session, err = a.authenticate(ctx, req)
		case protocol.ConnectionRecovery:
			session, err = a.recover(ctx, req)
		default:
			a.terminate("Invalid request")
			a.log.Info("invalid state during authentication", zap.String("state", string(req.State())))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if session != nil {
			a.log.Info("authentication completed",
				zap.String("username", session.Username))
			return session, nil
		}
	}
	return nil, nil
}

// authenticate handles a credentials request. Unknown usernames register an
// account; wrong passwords burn an attempt.
func (a *Authenticator) authenticate(ctx context.Context, req protocol.Message) (*channel.Session, error) {
	if !req.HasAttr("username") || !req.HasAttr("password") {
		return nil, a.reject("Missing username or password")
	}
	username := req.Attr("username")
	password := req.Attr("password")

	user, created, err := a.creds.Authenticate(ctx, username, password)
	switch {
	case errors.Is(err, store.ErrWrongPassword):
		return nil, a.reject("Invalid username or password")
	case err != nil:
		a.log.Error("credential store failure", zap.Error(err))
		return nil, a.reject("Something went wrong while authenticating user")
	}

	token, err := a.mintSession(ctx, username)
	if err != nil {
		a.log.Error("session minting failure", zap.Error(err))
		return nil, a.reject("Something went wrong while generating session")
	}

	body := "User successfully logged in"
	if created {
		body = "User successfully registered"
	}
	if err := a.ch.AcceptAuthentication(body, token); err != nil {
		return nil, nil
	}
	a.ch.SetToken(token)
	return channel.NewSession(username, token, a.ch, user.Rank), nil
}

// recover handles a session-recovery request. A matching live token mints a
// replacement; everything else is rejected without burning an attempt.
func (a *Authenticator) recover(ctx context.Context, req protocol.Message) (*channel.Session, error) {
	if !req.HasAttr(protocol.TokenAttr) {
		return nil, a.ch.RejectRecovery("Missing session token")
	}
	presented := req.Attr(protocol.TokenAttr)

	username, err := a.tokens.Verify(presented)
	if err != nil {
		return nil, a.ch.RejectRecovery("Invalid or expired session token")
	}
	current, err := a.sessions.Token(ctx, username)
	if err != nil || current != presented {
		return nil, a.ch.RejectRecovery("Invalid or expired session token")
	}

	token, err := a.mintSession(ctx, username)
	if err != nil {
		a.log.Error("session minting failure", zap.Error(err))
		return nil, a.ch.RejectRecovery("Something went wrong while generating session")
	}
	rank, err := a.creds.Rank(ctx, username)
	if err != nil {
		a.log.Error("rank lookup failure", zap.Error(err))
		return nil, a.ch.RejectRecovery("Something went wrong while recovering session")
	}

	body := "Session recovered successfully. Welcome back, " + username + "!"
	if err := a.ch.AcceptRecovery(body, token); err != nil {
		return nil, nil
	}
	a.ch.SetToken(token)
	return channel.NewSession(username, token, a.ch, rank), nil
}

// mintSession issues a token and records it as the account's only live
// session.
func (a *Authenticator) mintSession(ctx context.Context, username string) (string, error) {
	token, err := a.tokens.Mint(username)
	if err != nil {
		return "", err
	}
	if err := a.sessions.SetToken(ctx, username, token, TokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// reject burns an attempt. The last one terminates the connection instead
// of sending another rejection.
func (a *Authenticator) reject(body string) error {
	a.attempts--
	if a.attempts == 0 {
		a.terminate("Too many failed authentication attempts")
		return nil
	}
	return a.ch.RejectAuthentication(body)
}

func (a *Authenticator) terminate(body string) {
	_ = a.ch.EndConnection(body)
}
