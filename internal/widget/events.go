package widget

import (
	"sync"

	"github.com/ziadkadry99/dennischat/internal/i18n"
)

// Event is anything delivered to the controller loop.
type Event interface{ eventName() string }

// OpenIntent asks to show the panel.
type OpenIntent struct{}

// CloseIntent asks to hide the panel.
type CloseIntent struct{}

// SubmitIntent sends the text typed by the user.
type SubmitIntent struct{ Text string }

// LanguageIntent switches the UI language. An empty Code re-resolves from
// the stored preference and page language.
type LanguageIntent struct{ Code string }

type replyResult struct {
	id   string
	text string
	err  error
}

type languageChanged struct{ change i18n.Change }

type streamTick struct{ gen uint64 }

type revealLauncher struct{ gen uint64 }

func (OpenIntent) eventName() string      { return "open" }
func (CloseIntent) eventName() string     { return "close" }
func (SubmitIntent) eventName() string    { return "submit" }
func (LanguageIntent) eventName() string  { return "change_language" }
func (replyResult) eventName() string     { return "reply_result" }
func (languageChanged) eventName() string { return "language_changed" }
func (streamTick) eventName() string      { return "stream_tick" }
func (revealLauncher) eventName() string  { return "reveal_launcher" }

// queue is an unbounded FIFO. push never blocks; signal is raised after
// every push so a waiting consumer wakes up.
type queue struct {
	mu     sync.Mutex
	items  []Event
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

func (q *queue) push(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *queue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	ev := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return ev, true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
