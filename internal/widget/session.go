// Package widget holds the conversation state machine and the controller
// that connects it to the view, the language resolver and the reply source.
package widget

import (
	"strings"

	"github.com/google/uuid"
)

// Visibility of the conversation panel.
type Visibility int

const (
	Closed Visibility = iota
	Open
)

func (v Visibility) String() string {
	if v == Open {
		return "open"
	}
	return "closed"
}

// Status of the send pipeline.
type Status int

const (
	Idle Status = iota
	Sending
)

func (s Status) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// Role of a message author.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// State is the rendering state of a message.
type State string

const (
	Pending   State = "pending"
	Streaming State = "streaming"
	Settled   State = "settled"
)

// Message is one entry in the conversation.
type Message struct {
	ID    string
	Role  Role
	Text  string
	State State
	// Key names the dictionary entry Text was taken from. It is set only on
	// widget-authored messages so they can follow language changes.
	Key string
	// Error marks a failed reply, localized or not.
	Error bool
}

// Localized reports whether the message text comes from the dictionary.
func (m Message) Localized() bool { return m.Key != "" }

// Session is the conversation state machine. It has no side effects; the
// controller reflects its transitions onto the view.
//
// Visibility and Status are independent: closing the panel while a reply
// is in flight leaves the session Sending until the result arrives.
type Session struct {
	Visibility Visibility
	Status     Status
	Messages   []*Message

	pendingID string
	welcomed  bool
}

// NewSession returns a closed, idle session.
func NewSession() *Session {
	return &Session{}
}

// Open shows the panel. It reports false when the panel was already open.
func (s *Session) Open() bool {
	if s.Visibility == Open {
		return false
	}
	s.Visibility = Open
	return true
}

// Close hides the panel. It reports false when the panel was already closed.
func (s *Session) Close() bool {
	if s.Visibility == Closed {
		return false
	}
	s.Visibility = Closed
	return true
}

// Welcome appends the localized welcome message on the first call and
// returns nil afterwards.
func (s *Session) Welcome(key, text string) *Message {
	if s.welcomed {
		return nil
	}
	s.welcomed = true
	return s.add(RoleBot, text, Settled, key)
}

// CanSubmit reports whether a submit would be accepted.
func (s *Session) CanSubmit() bool {
	return s.Visibility == Open && s.Status == Idle
}

// Submit records a user message and a pending bot placeholder. It is a
// no-op returning ok=false while a send is in flight, while the panel is
// closed, or when text is blank.
func (s *Session) Submit(text, placeholderKey, placeholderText string) (user, placeholder *Message, ok bool) {
	if !s.CanSubmit() || strings.TrimSpace(text) == "" {
		return nil, nil, false
	}
	user = s.add(RoleUser, text, Settled, "")
	placeholder = s.add(RoleBot, placeholderText, Pending, placeholderKey)
	s.Status = Sending
	s.pendingID = placeholder.ID
	return user, placeholder, true
}

// Succeed moves the placeholder to streaming and returns it. The text is
// filled in by the renderer.
func (s *Session) Succeed(id string) *Message {
	m := s.resolvePending(id)
	if m == nil {
		return nil
	}
	m.State = Streaming
	m.Key = ""
	m.Text = ""
	return m
}

// Fail settles the placeholder with an error text. key is empty when the
// text did not come from the dictionary.
func (s *Session) Fail(id, key, text string) *Message {
	m := s.resolvePending(id)
	if m == nil {
		return nil
	}
	m.State = Settled
	m.Key = key
	m.Text = text
	m.Error = true
	return m
}

// Settle marks a streaming message as settled.
func (s *Session) Settle(id string) *Message {
	m := s.Find(id)
	if m == nil || m.State != Streaming {
		return nil
	}
	m.State = Settled
	return m
}

// Find returns the message with the given ID.
func (s *Session) Find(id string) *Message {
	for _, m := range s.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Streaming returns the message currently being revealed, if any.
func (s *Session) Streaming() *Message {
	for _, m := range s.Messages {
		if m.State == Streaming {
			return m
		}
	}
	return nil
}

func (s *Session) resolvePending(id string) *Message {
	if s.Status != Sending || id != s.pendingID {
		return nil
	}
	m := s.Find(id)
	if m == nil || m.State != Pending {
		return nil
	}
	s.Status = Idle
	s.pendingID = ""
	return m
}

func (s *Session) add(role Role, text string, state State, key string) *Message {
	m := &Message{ID: uuid.NewString(), Role: role, Text: text, State: state, Key: key}
	s.Messages = append(s.Messages, m)
	return m
}
