// Package game runs one table from start to finish.
//
// An Orchestrator owns the rules engine for its room and is the only
// goroutine that mutates it. Each turn it broadcasts per-seat snapshots and
// solicits a move from the current player with a bounded wait; a timeout or
// a dead connection degrades to a fold, so a stuck player never stalls the
// match. Disconnected players may reconnect mid-game through
// ReconnectPlayer, which swaps the seat's connection and replays the
// current snapshot.
//
// When the game ends, ranked deployments settle rank deltas into the
// credential store and every member is handed back to the matchmaker for
// requeue negotiation.
package game
