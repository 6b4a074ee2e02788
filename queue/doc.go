// Package queue matches authenticated sessions into rooms.
//
// A single Queuer loop owns the waiting queue, the pending-requeue buffer
// and the room index. It sleeps on a wake channel and retries matchmaking
// whenever a player is enqueued, a finished game submits players for
// requeueing, or (in ranked mode) a threshold relaxes.
//
// # Strategies
//
// Simple takes the six longest-waiting players. Ranked keeps a widening
// Threshold per queued player and assembles a room by backtracking search,
// admitting a candidate only under mutual threshold containment. Relaxation
// doubles each player's widening range every ten seconds so an isolated
// rank eventually matches anyone.
//
// # Rooms
//
// Started rooms are indexed by member username. A returning player whose
// username is still mapped is routed back into their running room instead
// of the queue.
package queue
