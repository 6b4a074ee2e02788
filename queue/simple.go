package queue

import (
	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/holdem"
)

// simple is first-come, first-served matchmaking.
type simple struct {
	q *Queuer
}

// NewSimple builds a FIFO queuer: a room is always the six longest-waiting
// players.
func NewSimple(log *zap.Logger) *Queuer {
	q := newQueuer(log.Named("queue"))
	q.strategy = &simple{q: q}
	return q
}

func (s *simple) AddToMainQueue(sess *channel.Session) {
	s.q.enqueue(sess)
}

// CreateGame takes the head of the queue. A broken candidate is dropped
// there and then, and the attempt reports failure so the loop retries with
// the shortened queue.
func (s *simple) CreateGame() bool {
	q := s.q

	q.mu.Lock()
	if len(q.queue) < holdem.NumPlayers {
		q.mu.Unlock()
		return false
	}
	candidates := make([]*channel.Session, holdem.NumPlayers)
	copy(candidates, q.queue[:holdem.NumPlayers])
	q.mu.Unlock()

	for _, c := range candidates {
		if c.IsBroken() {
			q.log.Info("dropping broken queue entry", zap.String("username", c.Username))
			q.removeFromQueue(c)
			return false
		}
	}

	if !q.commitCandidates(candidates) {
		q.log.Info("queue changed during liveness checks, retrying")
		return false
	}
	q.startRoom(candidates)
	return true
}
