package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the channel error taxonomy. Wrapped values add context;
// callers classify with errors.Is.
var (
	// ErrClosedConnection means the peer is gone or explicitly ended the
	// connection. Terminal for that connection.
	ErrClosedConnection = errors.New("connection closed")

	// ErrRequestTimeout means no message arrived within a bounded wait. The
	// connection itself is still usable; the caller picks the fallback.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrTokenMismatch means an inbound message did not carry the expected
	// session token. Treated as a protocol violation.
	ErrTokenMismatch = errors.New("session token mismatch")

	// ErrUnexpectedMessage means the wrong state or the wrong request/response
	// direction arrived. Treated as a protocol violation.
	ErrUnexpectedMessage = errors.New("unexpected message")
)

// DecodeError reports a malformed wire frame.
type DecodeError struct {
	Raw   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed message %q: %v", e.Raw, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }
