// Package client implements the terminal player: sign-in with session
// recovery, the lobby conversation, table rendering and move prompts. The
// interactive surface sits behind the UI interface so the state machine is
// testable without a terminal.
package client
