package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luca-patrignani/holdem-server/channel"
	"github.com/luca-patrignani/holdem-server/holdem"
	"github.com/luca-patrignani/holdem-server/protocol"
	"github.com/luca-patrignani/holdem-server/store"
)

// moveTimeout bounds how long the current player may take per move.
const moveTimeout = 30 * time.Second

// Matchmaker is the queueing engine as a finished game needs it.
type Matchmaker interface {
	RequeuePlayers([]*channel.Session)
	RemoveFromRoom(username string)
}

// Orchestrator drives one room. Its Run goroutine is the engine's only
// mutator; ReconnectPlayer is the only cross-goroutine entry and takes the
// same lock.
type Orchestrator struct {
	log        *zap.Logger
	matchmaker Matchmaker
	creds      store.CredentialStore
	ranked     bool

	timeout time.Duration

	mu      sync.Mutex // guards engine and members
	engine  Engine
	members []*channel.Session
}

// NewOrchestrator builds the room. Members hold the seats in slice order.
func NewOrchestrator(log *zap.Logger, matchmaker Matchmaker, creds store.CredentialStore, ranked bool, engine Engine, members []*channel.Session) *Orchestrator {
	return &Orchestrator{
		log:        log.Named("game"),
		matchmaker: matchmaker,
		creds:      creds,
		ranked:     ranked,
		timeout:    moveTimeout,
		engine:     engine,
		members:    members,
	}
}

// Run plays the table to completion, settles ranks in ranked mode and hands
// everyone back for requeueing. Cancelling ctx stops the game at the next
// turn boundary.
func (o *Orchestrator) Run(ctx context.Context) {
	o.notifyStart()
	o.play(ctx)
	o.log.Info("game finished")

	if o.ranked {
		o.settleRanks(ctx)
	}
	o.finish()
}

func (o *Orchestrator) notifyStart() {
	for _, m := range o.sessions() {
		if err := m.Channel.NotifyGameStart(); err != nil {
			o.log.Info("player unreachable while notifying game start",
				zap.String("username", m.Username))
		}
	}
}

func (o *Orchestrator) play(ctx context.Context) {
	for !o.gameOver() {
		for !o.handOver() {
			if ctx.Err() != nil {
				return
			}
			seat := o.currentSeat()
			o.broadcast()
			o.solicitMove(seat)
		}
		o.broadcast()

		o.mu.Lock()
		err := o.engine.EndHand()
		o.mu.Unlock()
		if err != nil {
			o.log.Error("hand settlement failed", zap.Error(err))
			return
		}
	}
	o.broadcast()
}

// solicitMove asks one seat for its move. A timeout or a dead channel
// degrades to a fold; a malformed move does too, since the player burned
// their turn on garbage.
func (o *Orchestrator) solicitMove(seat int) {
	o.mu.Lock()
	member := o.members[seat]
	o.mu.Unlock()
	snapshot, err := o.snapshotFor(seat)
	if err != nil {
		o.log.Error("snapshot failed", zap.Error(err))
		o.takeAction(holdem.ActionFold, 0)
		return
	}

	msg, err := member.Channel.GetPlayerMove("It's your turn", snapshot, o.timeout)
	switch {
	case errors.Is(err, protocol.ErrRequestTimeout):
		_ = member.Channel.EndConnection("Player timed out while playing. May reconnect to continue")
		o.log.Info("player timed out, folding", zap.String("username", member.Username))
		o.takeAction(holdem.ActionFold, 0)
		return
	case err != nil:
		o.log.Info("player disconnected, folding", zap.String("username", member.Username))
		o.takeAction(holdem.ActionFold, 0)
		return
	}

	action, err := holdem.ParseAction(msg.Attr("action"))
	amount, ok := msg.IntAttr("amount")
	if err != nil || !ok {
		o.log.Info("malformed move, folding",
			zap.String("username", member.Username),
			zap.String("action", msg.Attr("action")))
		o.takeAction(holdem.ActionFold, 0)
		return
	}
	o.takeAction(action, amount)
}

// broadcast sends each seat its own snapshot. Unreachable players are
// logged and skipped; they will fold on their turn.
func (o *Orchestrator) broadcast() {
	for seat, m := range o.sessions() {
		snapshot, err := o.snapshotFor(seat)
		if err != nil {
			o.log.Error("snapshot failed", zap.Error(err))
			return
		}
		if err := m.Channel.SendGameState(snapshot); err != nil {
			o.log.Info("player unreachable while sending game state",
				zap.String("username", m.Username))
		}
	}
}

// ReconnectPlayer swaps the member's connection for a fresh one, notifying
// the stale connection first, and replays the seat's current snapshot.
// Returns false when the username holds no seat here.
func (o *Orchestrator) ReconnectPlayer(s *channel.Session) bool {
	o.mu.Lock()
	seat := -1
	for i, m := range o.members {
		if m.Username == s.Username {
			seat = i
			break
		}
	}
	if seat == -1 {
		o.mu.Unlock()
		return false
	}

	old := o.members[seat]
	if err := old.Channel.EndConnection("Another connection was found for your account"); err != nil {
		o.log.Info("could not notify stale connection", zap.String("username", s.Username))
	}
	old.Channel.Close()
	o.members[seat] = s
	snapshot, err := o.engine.SnapshotFor(seat)
	o.mu.Unlock()

	if err != nil {
		o.log.Error("snapshot failed", zap.Error(err))
		return false
	}
	return s.Channel.SendGameState(snapshot) == nil
}

// settleRanks applies every seat's rank delta and refreshes the cached rank
// on the live sessions.
func (o *Orchestrator) settleRanks(ctx context.Context) {
	o.log.Info("updating rankings")
	o.mu.Lock()
	deltas := o.engine.RankDeltas()
	o.mu.Unlock()

	for _, m := range o.sessions() {
		delta, ok := deltas[m.Username]
		if !ok {
			continue
		}
		if err := o.creds.AddRank(ctx, m.Username, delta); err != nil {
			o.log.Error("rank update failed",
				zap.String("username", m.Username), zap.Error(err))
			continue
		}
		rank, err := o.creds.Rank(ctx, m.Username)
		if err != nil {
			o.log.Error("rank refresh failed",
				zap.String("username", m.Username), zap.Error(err))
			continue
		}
		m.SetRank(rank)
	}
}

// finish releases the room index and submits everyone for requeueing.
func (o *Orchestrator) finish() {
	members := o.sessions()
	for _, m := range members {
		o.matchmaker.RemoveFromRoom(m.Username)
	}
	o.matchmaker.RequeuePlayers(members)
}

func (o *Orchestrator) sessions() []*channel.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*channel.Session, len(o.members))
	copy(out, o.members)
	return out
}

func (o *Orchestrator) currentSeat() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.Current()
}

func (o *Orchestrator) handOver() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.IsHandOver()
}

func (o *Orchestrator) gameOver() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.IsGameOver()
}

func (o *Orchestrator) snapshotFor(seat int) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine.SnapshotFor(seat)
}

func (o *Orchestrator) takeAction(action holdem.Action, amount int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.engine.TakeAction(action, amount)
}
