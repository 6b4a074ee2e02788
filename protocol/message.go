package protocol

import (
	"encoding/json"
	"fmt"
)

// State identifies the phase of the conversation a message belongs to.
type State string

const (
	ConnectionRecovery State = "CONNECTION_RECOVERY"
	ConnectionCheck    State = "CONNECTION_CHECK"
	ConnectionEnd      State = "CONNECTION_END"
	Authentication     State = "AUTHENTICATION"
	Matchmaking        State = "MATCHMAKING"
	MatchReconnect     State = "MATCH_RECONNECT"
	MatchStart         State = "MATCH_START"
	MatchDisplay       State = "MATCH_DISPLAY"
	MatchPlay          State = "MATCH_PLAY"
	TurnTimeout        State = "TURN_TIMEOUT"
	Requeue            State = "REQUEUE"
)

var validStates = map[State]bool{
	ConnectionRecovery: true,
	ConnectionCheck:    true,
	ConnectionEnd:      true,
	Authentication:     true,
	Matchmaking:        true,
	MatchReconnect:     true,
	MatchStart:         true,
	MatchDisplay:       true,
	MatchPlay:          true,
	TurnTimeout:        true,
	Requeue:            true,
}

// Status distinguishes the request that opens an exchange from its responses.
type Status string

const (
	StatusRequest Status = "REQUEST"
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
)

// TokenAttr is the attribute key under which the session token travels.
const TokenAttr = "sessionToken"

// Message is one framed protocol envelope. It is immutable after construction.
type Message struct {
	state  State
	status Status
	body   string
	attrs  map[string]any
}

// NewMessage builds a message. The attribute map is copied, and the session
// token, when not empty, is stored under TokenAttr.
func NewMessage(state State, status Status, body string, attrs map[string]any, sessionToken string) Message {
	m := Message{
		state:  state,
		status: status,
		body:   body,
		attrs:  make(map[string]any, len(attrs)+1),
	}
	for k, v := range attrs {
		m.attrs[k] = v
	}
	if sessionToken != "" {
		m.attrs[TokenAttr] = sessionToken
	}
	return m
}

// State returns the conversation phase of the message.
func (m Message) State() State { return m.state }

// Status returns the request/response status of the message.
func (m Message) Status() Status { return m.status }

// Body returns the optional human-readable body, empty when absent.
func (m Message) Body() string { return m.body }

// IsRequest reports whether the message opens a new exchange.
func (m Message) IsRequest() bool { return m.status == StatusRequest }

// IsOK reports whether the message is a positive response.
func (m Message) IsOK() bool { return m.status == StatusOK }

// IsConnectionEnd reports whether the message belongs to the CONNECTION_END state.
func (m Message) IsConnectionEnd() bool { return m.state == ConnectionEnd }

// IsConnectionEndRequest reports whether the peer is asking to end the connection.
func (m Message) IsConnectionEndRequest() bool { return m.IsConnectionEnd() && m.IsRequest() }

// IsConnectionCheckRequest reports whether the message is a liveness heartbeat request.
func (m Message) IsConnectionCheckRequest() bool {
	return m.state == ConnectionCheck && m.IsRequest()
}

// HasAttr reports whether the attribute key is present.
func (m Message) HasAttr(key string) bool {
	_, ok := m.attrs[key]
	return ok
}

// Attr returns the string attribute stored under key, empty when absent or
// not a string.
func (m Message) Attr(key string) string {
	s, _ := m.attrs[key].(string)
	return s
}

// IntAttr returns the integer attribute stored under key. The second return
// value reports presence. JSON numbers decode as float64, so both forms are
// accepted.
func (m Message) IntAttr(key string) (int, bool) {
	switch v := m.attrs[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// BoolAttr returns the boolean attribute stored under key and whether it was present.
func (m Message) BoolAttr(key string) (bool, bool) {
	b, ok := m.attrs[key].(bool)
	return b, ok
}

// SessionToken returns the token carried by the message, empty when absent.
func (m Message) SessionToken() string { return m.Attr(TokenAttr) }

// MatchesToken reports whether the message carries the expected session token.
// An empty expectation matches any message: before authentication there is no
// token to enforce.
func (m Message) MatchesToken(expected string) bool {
	if expected == "" {
		return true
	}
	return m.Attr(TokenAttr) == expected
}

type wireMessage struct {
	State  State          `json:"state"`
	Status Status         `json:"status"`
	Body   *string        `json:"body"`
	Attrs  map[string]any `json:"attributes"`
}

// Encode serializes the message to its single-line wire form.
func (m Message) Encode() ([]byte, error) {
	w := wireMessage{
		State:  m.state,
		Status: m.status,
		Attrs:  m.attrs,
	}
	if m.body != "" {
		w.Body = &m.body
	}
	if w.Attrs == nil {
		w.Attrs = map[string]any{}
	}
	return json.Marshal(w)
}

// String renders the wire form for logs.
func (m Message) String() string {
	b, err := m.Encode()
	if err != nil {
		return fmt.Sprintf("message<%s %s>", m.state, m.status)
	}
	return string(b)
}

// Decode parses one wire frame into a Message. Malformed input, an unknown
// state or an unknown status yield a *DecodeError.
func Decode(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, &DecodeError{Raw: string(data), Cause: err}
	}
	if !validStates[w.State] {
		return Message{}, &DecodeError{Raw: string(data), Cause: fmt.Errorf("unknown state %q", w.State)}
	}
	if w.Status != StatusRequest && w.Status != StatusOK && w.Status != StatusError {
		return Message{}, &DecodeError{Raw: string(data), Cause: fmt.Errorf("unknown status %q", w.Status)}
	}
	m := Message{
		state:  w.State,
		status: w.Status,
		attrs:  w.Attrs,
	}
	if m.attrs == nil {
		m.attrs = map[string]any{}
	}
	if w.Body != nil {
		m.body = *w.Body
	}
	return m, nil
}
