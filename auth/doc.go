// Package auth turns raw connections into authenticated sessions.
//
// The Manager accepts websocket connections and runs one Authenticator per
// connection. An authenticator gives the peer three attempts, each bounded
// by a 30 second request timeout, to either log in with credentials
// (unknown usernames are registered on the spot) or recover a previous
// session by token. Recovery always mints a replacement token; the old one
// stops working immediately.
//
// Tokens are HS256 JWTs carrying the username, but possession of a valid
// JWT is not enough: the session store keeps the single current token per
// account, and only that exact token recovers the session.
package auth
