// Package reply produces bot replies for user messages, either from the
// remote chat endpoint or from the local canned table.
package reply

import (
	"context"
	"errors"
	"fmt"
)

// Request is one outgoing user message.
type Request struct {
	Text string
	// Hint is the detected language of Text. Sources may ignore it.
	Hint string
	// UILang is the widget's active language.
	UILang string
}

// Source turns a user message into reply text.
type Source interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Kind classifies a reply failure.
type Kind int

const (
	KindNetwork Kind = iota
	KindHTTP
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is a failed reply. Detail is a human-readable message supplied by
// the backend, when it sent one.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP && e.Detail != "":
		return fmt.Sprintf("reply failed: status %d: %s", e.Status, e.Detail)
	case e.Kind == KindHTTP:
		return fmt.Sprintf("reply failed: status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("reply failed (%s): %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("reply failed (%s)", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// DetailOf returns the backend-supplied message carried by err, if any.
func DetailOf(err error) string {
	var re *Error
	if errors.As(err, &re) {
		return re.Detail
	}
	return ""
}
