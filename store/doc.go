// Package store persists accounts, ranks and session tokens.
//
// CredentialStore handles registration-on-first-login with bcrypt-hashed
// passwords and ranked-mode standings. SessionStore keeps the single
// current token per account, so minting a replacement token invalidates
// the previous one.
//
// Memory backs both for tests and single-node play; Postgres (pgx) backs
// credentials and Redis backs sessions in a real deployment.
package store
