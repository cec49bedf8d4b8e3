package authapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a failed registration call.
type Kind int

const (
	// KindStatus: the server answered with a non-2xx status.
	KindStatus Kind = iota
	// KindTransport: the request never got a response.
	KindTransport
	// KindDecode: a 2xx response whose body was not JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// FallbackMessage is used when a failure has no text of its own.
const FallbackMessage = "Registration failed"

// Error is returned by Client.Register for every failure. Error() is the
// user-facing message, suitable for a banner.
type Error struct {
	Kind      Kind
	Status    int    // HTTP status, 0 for transport failures
	Message   string // what to show the user
	Body      string // raw response body, if any
	RequestID string
	Err       error // underlying cause for transport and decode failures
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail renders the error with its classification for logs.
func (e *Error) Detail() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d, request %s): %s", e.Kind, e.Status, e.RequestID, e.Message)
	}
	return fmt.Sprintf("%s error (request %s): %s", e.Kind, e.RequestID, e.Message)
}

// errorPayload is the structured error body the auth service may send.
type errorPayload struct {
	Error json.RawMessage `json:"error"`
}

// messageFromBody extracts the banner text from a non-2xx body: the
// "error" string of a JSON object when present, otherwise the raw text.
// A malformed body is not an error; it falls back to the raw text.
func messageFromBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return FallbackMessage
	}

	var payload errorPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && len(payload.Error) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Error, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return trimmed
}
