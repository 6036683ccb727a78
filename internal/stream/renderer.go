// Package stream reveals reply text into a message slot one rune at a time.
//
// The renderer never sleeps or spawns goroutines. Each step is driven by a
// tick delivered through the Schedule callback, so the owner's event loop
// stays in charge of ordering: ticks are processed in sequence with every
// other event, and a tick that belongs to an abandoned render is ignored.
package stream

import "time"

// Defaults for the typewriter effect.
const (
	DefaultCadence   = 18 * time.Millisecond
	DefaultThreshold = 600
)

// Slot is the visible target of a render.
type Slot interface {
	SetText(text string)
}

// SlotFunc adapts a function to Slot.
type SlotFunc func(text string)

func (f SlotFunc) SetText(text string) { f(text) }

// Schedule arranges for Advance(gen) to be called after d.
type Schedule func(gen uint64, d time.Duration)

// Options configures a Renderer.
type Options struct {
	Cadence time.Duration
	// Threshold is the rune count above which text renders at once.
	Threshold int
	Schedule  Schedule
}

type job struct {
	slot  Slot
	runes []rune
	pos   int
	done  func()
}

// Renderer owns at most one in-progress render.
type Renderer struct {
	cadence   time.Duration
	threshold int
	schedule  Schedule

	gen    uint64
	active *job
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Cadence <= 0 {
		opts.Cadence = DefaultCadence
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Renderer{
		cadence:   opts.Cadence,
		threshold: opts.Threshold,
		schedule:  opts.Schedule,
	}
}

// Render shows text in slot. done runs once the slot holds the full text,
// whether it got there by the last tick, an atomic render or a flush.
// Any render still in progress is flushed first.
func (r *Renderer) Render(slot Slot, text string, done func()) {
	r.Flush()

	runes := []rune(text)
	if len(runes) == 0 || len(runes) > r.threshold || r.schedule == nil {
		slot.SetText(text)
		if done != nil {
			done()
		}
		return
	}

	r.gen++
	r.active = &job{slot: slot, runes: runes, done: done}
	r.schedule(r.gen, r.cadence)
}

// Advance reveals the next rune of the render identified by gen. Ticks for
// an older generation are dropped.
func (r *Renderer) Advance(gen uint64) {
	j := r.active
	if j == nil || gen != r.gen {
		return
	}

	j.pos++
	j.slot.SetText(string(j.runes[:j.pos]))
	if j.pos < len(j.runes) {
		r.schedule(gen, r.cadence)
		return
	}
	r.finish()
}

// Flush completes the current render immediately.
func (r *Renderer) Flush() {
	j := r.active
	if j == nil {
		return
	}
	if j.pos < len(j.runes) {
		j.pos = len(j.runes)
		j.slot.SetText(string(j.runes))
	}
	r.finish()
}

func (r *Renderer) finish() {
	j := r.active
	r.active = nil
	// Invalidate any tick already scheduled for this job.
	r.gen++
	if j.done != nil {
		j.done()
	}
}
