// Package channel wraps one framed transport with the poker wire protocol.
//
// # Core Components
//
// Channel: the protocol engine. It owns a reader goroutine that decodes
// inbound frames into an inbox, so bounded waits can elapse without tearing
// the connection down, and serializes outbound writes.
//
// ServerChannel and ClientChannel: thin role-specific facades over the same
// engine, exposing the named operations each side may initiate. There is no
// inheritance; both embed *Channel.
//
// Session: an authenticated connection: username, session token, skill rank
// and the server-facing channel it arrived on.
//
// # Receive semantics
//
// Receive validates every inbound message in a fixed order: connection still
// open, session token match, not a connection-end request, transparent answer
// to liveness heartbeats, expected state, request/response direction. Each
// failure maps onto one protocol sentinel error. A bounded wait that elapses
// yields protocol.ErrRequestTimeout and leaves the connection usable.
package channel
