package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/holdem"
)

// requeueTimeout bounds the requeue negotiation round-trip per player.
const requeueTimeout = 30 * time.Second

// Room is a running game as the queue sees it.
type Room interface {
	// Run drives the game to completion. Called once, on its own goroutine.
	Run(ctx context.Context)

	// ReconnectPlayer swaps a member's connection for a fresh one. Returns
	// false when the username holds no seat in this room.
	ReconnectPlayer(s *channel.Session) bool
}

// RoomFactory builds a room for a matched set of members.
type RoomFactory func(members []*channel.Session) Room

// Strategy decides who gets queued and how rooms are assembled.
type Strategy interface {
	// AddToMainQueue confirms matchmaking intent with the client and, on
	// confirmation, enqueues the session.
	AddToMainQueue(s *channel.Session)

	// CreateGame tries to assemble and start one room. It reports whether
	// a game was started; broken candidates are dropped from the queue
	// instead.
	CreateGame() bool
}

// Queuer owns the waiting queue, the requeue buffer and the room index, and
// runs the single matchmaking loop. The concrete Strategy decides room
// composition.
type Queuer struct {
	log     *zap.Logger
	factory RoomFactory

	strategy Strategy

	mu    sync.Mutex // guards queue
	queue []*channel.Session

	requeueMu sync.Mutex // guards requeue
	requeue   []*channel.Session

	roomsMu sync.Mutex // guards rooms
	rooms   map[string]Room

	wake chan struct{}
	wg   sync.WaitGroup
	done chan struct{} // closed when Run winds down, stops relaxers

	// ctx is written at the top of Run and read only from Run's own call
	// tree (CreateGame, startRoom); other goroutines use done instead.
	ctx context.Context
}

func newQueuer(log *zap.Logger) *Queuer {
	return &Queuer{
		log:   log,
		rooms: make(map[string]Room),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		ctx:   context.Background(),
	}
}

// SetRoomFactory installs the room builder. Must be called before Run; the
// factory and the queuer reference each other, so it cannot be a
// constructor argument.
func (q *Queuer) SetRoomFactory(f RoomFactory) { q.factory = f }

// Run drives matchmaking until ctx is cancelled. Each wakeup forms as many
// rooms as the strategy can fill, then drains the requeue buffer.
func (q *Queuer) Run(ctx context.Context) {
	q.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			close(q.done)
			q.wg.Wait()
			return
		case <-q.wake:
		}

		for q.queued() >= holdem.NumPlayers && q.strategy.CreateGame() {
		}
		q.drainRequeue(ctx)
	}
}

// QueuePlayer routes a session into its running room when its username is
// still seated there, otherwise into the waiting queue.
func (q *Queuer) QueuePlayer(s *channel.Session) {
	q.roomsMu.Lock()
	room := q.rooms[s.Username]
	q.roomsMu.Unlock()

	if room != nil {
		q.log.Info("player reconnecting to a match", zap.String("username", s.Username))
		q.reconnectToRoom(room, s)
		return
	}
	q.strategy.AddToMainQueue(s)
	q.log.Info("player queued", zap.String("username", s.Username))
}

func (q *Queuer) reconnectToRoom(room Room, s *channel.Session) {
	ok, err := s.Channel.RequestMatchReconnect()
	if err != nil || !ok {
		return
	}
	if room.ReconnectPlayer(s) {
		q.log.Info("player reconnected to match", zap.String("username", s.Username))
	} else {
		q.log.Info("player could not reconnect to match", zap.String("username", s.Username))
	}
}

// RequeuePlayers submits a finished game's members for requeue negotiation.
func (q *Queuer) RequeuePlayers(sessions []*channel.Session) {
	q.requeueMu.Lock()
	q.requeue = append(q.requeue, sessions...)
	q.requeueMu.Unlock()
	q.signal()
}

// RemoveFromRoom unmaps a username from the room index, making it eligible
// for normal queueing again.
func (q *Queuer) RemoveFromRoom(username string) {
	q.roomsMu.Lock()
	delete(q.rooms, username)
	q.roomsMu.Unlock()
}

func (q *Queuer) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queuer) queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// enqueue runs the matchmaking confirmation round-trip and inserts the
// session. A session for an already-queued username replaces the stale
// entry, which gets an explicit connection-end notice. The return reports
// whether the session was appended as a new entry.
func (q *Queuer) enqueue(s *channel.Session) bool {
	ok, err := s.Channel.RequestMatchmaking()
	if err != nil || !ok {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i, queued := range q.queue {
		if queued.Username == s.Username {
			if err := queued.Channel.EndConnection("Another connection was found for your account"); err != nil {
				q.log.Info("could not notify stale connection", zap.String("username", s.Username))
			}
			queued.Channel.Close()
			q.queue[i] = s
			q.log.Info("replaced stale queue entry", zap.String("username", s.Username))
			// A matching attempt snapshotted before the replacement must
			// abort and retry against the new entry.
			q.signal()
			return false
		}
	}
	q.queue = append(q.queue, s)
	q.signal()
	return true
}

// removeFromQueue drops a session from the waiting queue, preserving order.
// It reports whether the exact entry was still queued; a false return means
// a newer connection replaced it in the meantime.
func (q *Queuer) removeFromQueue(s *channel.Session) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, queued := range q.queue {
		if queued == s {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return true
		}
	}
	return false
}

// commitCandidates removes a matched set from the waiting queue in one
// critical section. The liveness probes run unlocked, so by commit time a
// reconnecting username may have replaced its entry in place; in that case
// nothing is removed and the attempt must be abandoned, or the superseded
// session would be seated while the fresh one stays queued.
func (q *Queuer) commitCandidates(candidates []*channel.Session) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	matched := make(map[*channel.Session]bool, len(candidates))
	for _, c := range candidates {
		matched[c] = true
	}
	still := 0
	for _, queued := range q.queue {
		if matched[queued] {
			still++
		}
	}
	if still != len(candidates) {
		return false
	}

	kept := q.queue[:0]
	for _, queued := range q.queue {
		if !matched[queued] {
			kept = append(kept, queued)
		}
	}
	q.queue = kept
	return true
}

// startRoom indexes the members and launches the game goroutine.
func (q *Queuer) startRoom(members []*channel.Session) {
	room := q.factory(members)

	q.roomsMu.Lock()
	for _, m := range members {
		q.rooms[m.Username] = room
	}
	q.roomsMu.Unlock()

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Username
	}
	q.log.Info("starting game", zap.Strings("players", names))

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		room.Run(q.ctx)
	}()
}

// drainRequeue launches one negotiator per pending player.
func (q *Queuer) drainRequeue(ctx context.Context) {
	q.requeueMu.Lock()
	pending := q.requeue
	q.requeue = nil
	q.requeueMu.Unlock()

	for _, s := range pending {
		q.wg.Add(1)
		go func(s *channel.Session) {
			defer q.wg.Done()
			q.negotiateRequeue(ctx, s)
		}(s)
	}
}

// negotiateRequeue asks one player whether they want another match. Timeout
// or decline ends the conversation; acceptance routes back through
// QueuePlayer.
func (q *Queuer) negotiateRequeue(ctx context.Context, s *channel.Session) {
	resp, err := s.Channel.SendRequeueRequest(requeueTimeout)
	if err != nil {
		_ = s.Channel.EndConnection("Requeue request timed out")
		s.Channel.Close()
		return
	}
	if ctx.Err() != nil {
		return
	}
	requeue, ok := resp.BoolAttr("requeue")
	if !ok || !requeue {
		s.Channel.Close()
		return
	}
	q.log.Info("player requeued", zap.String("username", s.Username))
	q.QueuePlayer(s)
}
