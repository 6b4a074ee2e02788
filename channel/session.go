package channel

import "sync"

// Session is one authenticated connection. It is created by the authenticator
// and superseded when a newer connection arrives for the same username.
type Session struct {
	Username string
	Token    string
	Channel  *ServerChannel

	mu   sync.Mutex
	rank int
}

// NewSession binds a username, its freshly minted token and its rank to the
// server-facing channel it authenticated on.
func NewSession(username, token string, ch *ServerChannel, rank int) *Session {
	return &Session{
		Username: username,
		Token:    token,
		Channel:  ch,
		rank:     rank,
	}
}

// Rank returns the cached skill rank.
func (s *Session) Rank() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rank
}

// SetRank refreshes the cached skill rank after settlement.
func (s *Session) SetRank(rank int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rank = rank
}

// IsBroken probes the connection with a liveness check.
func (s *Session) IsBroken() bool { return s.Channel.IsBroken() }
