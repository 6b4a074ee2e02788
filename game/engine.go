package game

import (
	"github.com/luca-patrignani/holdem-server/holdem"
)

// Engine is the rules engine as the orchestrator drives it. The orchestrator
// is the engine's only mutator.
type Engine interface {
	// Current returns the seat index whose turn it is.
	Current() int

	// IsHandOver reports whether the hand has reached showdown.
	IsHandOver() bool

	// IsGameOver reports whether the table is finished.
	IsGameOver() bool

	// SnapshotFor serializes the table as one seat is allowed to see it.
	SnapshotFor(seat int) (string, error)

	// TakeAction applies the current seat's move.
	TakeAction(action holdem.Action, amount int)

	// EndHand settles the pot and advances to the next hand or the end of
	// the game.
	EndHand() error

	// RankDeltas returns the per-username rank adjustment for a finished
	// game.
	RankDeltas() map[string]int
}

type holdemEngine struct {
	g *holdem.Game
}

// NewHoldemEngine seats the usernames at a fresh table.
func NewHoldemEngine(usernames []string) (Engine, error) {
	g, err := holdem.NewGame(usernames)
	if err != nil {
		return nil, err
	}
	return &holdemEngine{g: g}, nil
}

func (e *holdemEngine) Current() int     { return e.g.Current() }
func (e *holdemEngine) IsHandOver() bool { return e.g.IsHandOver() }
func (e *holdemEngine) IsGameOver() bool { return e.g.IsGameOver() }

func (e *holdemEngine) SnapshotFor(seat int) (string, error) {
	snap, err := e.g.Snapshot(seat)
	if err != nil {
		return "", err
	}
	return snap.Encode()
}

func (e *holdemEngine) TakeAction(action holdem.Action, amount int) {
	e.g.TakeAction(action, amount)
}

func (e *holdemEngine) EndHand() error { return e.g.EndHand() }

// RankDeltas awards every seat its final stack divided by 100, so standing
// grows with chips kept, not just with outright wins.
func (e *holdemEngine) RankDeltas() map[string]int {
	deltas := make(map[string]int, len(e.g.Players()))
	for _, p := range e.g.Players() {
		deltas[p.Username()] = p.Chips() / 100
	}
	return deltas
}
