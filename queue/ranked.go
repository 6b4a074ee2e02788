package queue

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/holdem"
)

// relaxInterval is how often a queued player's threshold widens.
const relaxInterval = 10 * time.Second

// maxSearchCandidates bounds the backtracking search: only this many queue
// entries, longest-waiting first, are considered per attempt. The search is
// exponential in the worst case and runs synchronously in the matchmaking
// loop, so an unbounded candidate pool could stall matchmaking on a large
// queue.
const maxSearchCandidates = 24

// ranked matches players of comparable standing under mutual threshold
// containment.
type ranked struct {
	q *Queuer

	mu         sync.Mutex // guards thresholds and relaxers
	thresholds map[string]*Threshold
	relaxers   map[string]chan struct{}
}

// NewRanked builds a rank-aware queuer. Every queued player gets a
// Threshold centered on their rank and a relaxer that widens it every
// relaxInterval until they are matched.
func NewRanked(log *zap.Logger) *Queuer {
	q := newQueuer(log.Named("queue"))
	q.strategy = &ranked{
		q:          q,
		thresholds: make(map[string]*Threshold),
		relaxers:   make(map[string]chan struct{}),
	}
	return q
}

func (r *ranked) AddToMainQueue(sess *channel.Session) {
	if !r.q.enqueue(sess) {
		// Replaced entries keep their existing threshold and relaxer.
		return
	}

	r.mu.Lock()
	r.thresholds[sess.Username] = NewThreshold(sess.Rank())
	stop := make(chan struct{})
	r.relaxers[sess.Username] = stop
	r.mu.Unlock()

	r.q.wg.Add(1)
	go r.relax(sess.Username, stop)
}

// relax widens one player's threshold on a fixed period until the player
// leaves the queue.
func (r *ranked) relax(username string, stop chan struct{}) {
	defer r.q.wg.Done()
	ticker := time.NewTicker(relaxInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-r.q.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			if t, ok := r.thresholds[username]; ok {
				t.Expand()
				lower, upper := t.Bounds()
				r.q.log.Info("threshold relaxed",
					zap.String("username", username),
					zap.Int("lower", lower),
					zap.Int("upper", upper))
			}
			r.mu.Unlock()
			r.q.signal()
		}
	}
}

func (r *ranked) forget(username string) {
	r.mu.Lock()
	delete(r.thresholds, username)
	if stop, ok := r.relaxers[username]; ok {
		close(stop)
		delete(r.relaxers, username)
	}
	r.mu.Unlock()
}

// findRoom grows a candidate room by backtracking: a player joins only if
// their threshold contains every member's rank and every member's threshold
// contains theirs. A full room is returned immediately; a dead end unwinds.
func (r *ranked) findRoom(candidates []*channel.Session, room []*channel.Session) []*channel.Session {
	if len(room) == holdem.NumPlayers {
		return room
	}

	for i, candidate := range candidates {
		suitable := true
		for _, member := range room {
			ct := r.thresholds[candidate.Username]
			mt := r.thresholds[member.Username]
			if ct == nil || mt == nil ||
				!ct.Contains(member.Rank()) || !mt.Contains(candidate.Rank()) {
				suitable = false
				break
			}
		}
		if !suitable {
			continue
		}

		remaining := make([]*channel.Session, 0, len(candidates)-1)
		remaining = append(remaining, candidates[:i]...)
		remaining = append(remaining, candidates[i+1:]...)
		grown := make([]*channel.Session, len(room)+1)
		copy(grown, room)
		grown[len(room)] = candidate
		if full := r.findRoom(remaining, grown); full != nil {
			return full
		}
	}
	return nil
}

func (r *ranked) tryMatchmaking() []*channel.Session {
	r.q.mu.Lock()
	candidates := make([]*channel.Session, len(r.q.queue))
	copy(candidates, r.q.queue)
	r.q.mu.Unlock()

	if len(candidates) > maxSearchCandidates {
		candidates = candidates[:maxSearchCandidates]
	}

	r.mu.Lock()
	room := r.findRoom(candidates, nil)
	r.mu.Unlock()

	if room == nil {
		r.q.log.Info("no suitable opponents found")
	}
	return room
}

func (r *ranked) CreateGame() bool {
	room := r.tryMatchmaking()
	if room == nil {
		return false
	}

	allAlive := true
	for _, member := range room {
		if member.IsBroken() {
			allAlive = false
			r.q.log.Info("dropping broken queue entry", zap.String("username", member.Username))
			// A replaced entry keeps its threshold and relaxer for the
			// fresh session; only a genuine removal forgets them.
			if r.q.removeFromQueue(member) {
				r.forget(member.Username)
			}
		}
	}
	if !allAlive {
		return false
	}

	if !r.q.commitCandidates(room) {
		r.q.log.Info("queue changed during liveness checks, retrying")
		return false
	}
	for _, member := range room {
		r.forget(member.Username)
	}
	r.q.startRoom(room)
	return true
}
