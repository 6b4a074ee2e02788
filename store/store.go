package store

import (
	"context"
	"errors"
	"time"
)

// DefaultRank is the standing a freshly registered account starts with.
const DefaultRank = 1000

// ErrWrongPassword is returned when the account exists but the password
// does not match.
var ErrWrongPassword = errors.New("invalid username or password")

// ErrUnknownUser is returned for lookups on accounts that were never
// registered.
var ErrUnknownUser = errors.New("unknown user")

// User is one account as the matchmaking layers see it.
type User struct {
	Username string
	Rank     int
}

// CredentialStore verifies and registers accounts.
type CredentialStore interface {
	// Authenticate verifies the password for username. An unknown username
	// is registered on the spot. The second return reports whether the
	// account was created by this call.
	Authenticate(ctx context.Context, username, password string) (User, bool, error)

	// Rank returns the current standing of an account.
	Rank(ctx context.Context, username string) (int, error)

	// AddRank shifts an account's standing by delta, which may be negative.
	AddRank(ctx context.Context, username string, delta int) error
}

// SessionStore tracks the one valid session token per account.
type SessionStore interface {
	// SetToken replaces the account's current token. Any previously issued
	// token stops being accepted.
	SetToken(ctx context.Context, username, token string, ttl time.Duration) error

	// Token returns the account's current token, or ErrUnknownUser when no
	// session is live.
	Token(ctx context.Context, username string) (string, error)

	// ClearToken drops the account's session, if any.
	ClearToken(ctx context.Context, username string) error
}
