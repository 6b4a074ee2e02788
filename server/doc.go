// Package server wires the full table server together: configuration,
// storage backends, the authentication accept loop, the matchmaking queue
// and the per-room game orchestrators.
//
// # Lifecycle
//
// New builds every component from a Config but opens no sockets. Run starts
// the queue loop and the websocket listener and blocks until the context is
// cancelled, then shuts the listener down and notifies every live session
// that the server is going away.
package server
