// Package protocol defines the wire protocol spoken between the poker server
// and its clients. Every exchange is a Message: a typed envelope carrying a
// state, a status, an optional human-readable body and a set of attributes.
//
// # Wire format
//
// A Message serializes to a single-line JSON document:
//
//	{"state":"AUTHENTICATION","status":"REQUEST","body":null,"attributes":{...}}
//
// One message per frame. The attributes object carries the session token once
// a session exists, plus state-specific keys (username/password for
// authentication, gameState for match play, and so on).
//
// # Conversation model
//
// A message with status REQUEST opens a new exchange; OK and ERROR are the two
// possible responses. CONNECTION_CHECK requests are a liveness heartbeat that
// either side may issue at any time, and CONNECTION_END requests terminate the
// conversation carrying the reason in the body.
//
// # Errors
//
// Failures while reading the wire map onto a small closed taxonomy:
// ErrClosedConnection, ErrRequestTimeout, ErrTokenMismatch and
// ErrUnexpectedMessage, plus DecodeError for malformed frames. Callers are
// expected to classify with errors.Is and errors.As.
package protocol
