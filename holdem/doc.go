// Package holdem implements the rules of a six-player Texas Hold'em
// tournament: dealing, blinds, betting rounds, showdown and chip movement.
//
// # Core Types
//
// Game: The complete state of one table. It is not safe for concurrent use;
// the orchestrator running the match serializes access to it.
//
// Player: One seat at the table with its chips, current bets and state.
//
// Card: A playing card with suit and rank.
//
// Snapshot: A serializable, per-viewer projection of the Game. Opponents'
// hole cards are withheld until the hand reaches showdown.
//
// # Game Flow
//
// A hand progresses preflop, flop, turn, river and then showdown. Blinds
// start at 50/100 and double every five hands. The tournament ends after
// twenty hands or when a single player holds all the chips.
//
// # Hand Evaluation
//
// Showdown uses 7-card hand evaluation. Ties split the pot, with any
// remainder going to the earliest seat among the winners.
package holdem
