package widget

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/i18n"
	"github.com/ziadkadry99/dennischat/internal/langdetect"
	"github.com/ziadkadry99/dennischat/internal/reply"
	"github.com/ziadkadry99/dennischat/internal/stream"
)

// DefaultCloseDelay is how long the launcher stays hidden after a close so
// the panel's close animation can finish.
const DefaultCloseDelay = 250 * time.Millisecond

// Options configures a Controller.
type Options struct {
	View     View
	Resolver *i18n.Resolver
	Source   reply.Source

	// Detect tags outgoing text with a language hint. Defaults to
	// langdetect.Detect.
	Detect func(text string) string

	Cadence         time.Duration
	StreamThreshold int
	CloseDelay      time.Duration

	Logger zerolog.Logger

	// After runs fn once d has elapsed. Defaults to time.AfterFunc.
	After func(d time.Duration, fn func())
	// Spawn runs a blocking task off the loop. Defaults to a new goroutine.
	Spawn func(task func())
}

// Controller owns the session and is the only caller of the View. All state
// changes happen on the goroutine running Run; everything else talks to it
// through Post.
type Controller struct {
	view     View
	resolver *i18n.Resolver
	source   reply.Source
	detect   func(string) string
	delay    time.Duration
	after    func(time.Duration, func())
	spawn    func(func())
	log      zerolog.Logger

	queue       *queue
	session     *Session
	renderer    *stream.Renderer
	ctx         context.Context
	closeGen    uint64
	unsubscribe func()
}

// New creates a Controller. Call Run to start processing events.
func New(opts Options) *Controller {
	c := &Controller{
		view:     opts.View,
		resolver: opts.Resolver,
		source:   opts.Source,
		detect:   opts.Detect,
		delay:    opts.CloseDelay,
		after:    opts.After,
		spawn:    opts.Spawn,
		log:      opts.Logger.With().Str("component", "widget").Logger(),
		queue:    newQueue(),
		session:  NewSession(),
		ctx:      context.Background(),
	}
	if c.detect == nil {
		c.detect = langdetect.Detect
	}
	if c.delay <= 0 {
		c.delay = DefaultCloseDelay
	}
	if c.after == nil {
		c.after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if c.spawn == nil {
		c.spawn = func(task func()) { go task() }
	}
	c.renderer = stream.New(stream.Options{
		Cadence:   opts.Cadence,
		Threshold: opts.StreamThreshold,
		Schedule: func(gen uint64, d time.Duration) {
			c.after(d, func() { c.Post(streamTick{gen: gen}) })
		},
	})
	c.unsubscribe = c.resolver.Subscribe(func(ch i18n.Change) {
		c.Post(languageChanged{change: ch})
	})
	return c
}

// Post enqueues an event. It never blocks and is safe from any goroutine.
func (c *Controller) Post(ev Event) { c.queue.push(ev) }

// Open, Close, Submit and ChangeLanguage post the matching intents.
func (c *Controller) Open()                      { c.Post(OpenIntent{}) }
func (c *Controller) Close()                     { c.Post(CloseIntent{}) }
func (c *Controller) Submit(text string)         { c.Post(SubmitIntent{Text: text}) }
func (c *Controller) ChangeLanguage(code string) { c.Post(LanguageIntent{Code: code}) }

// Run initializes the view and processes events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	defer c.unsubscribe()
	c.ctx = ctx

	c.start()
	for {
		c.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.queue.signal:
		}
	}
}

// start puts the view into the closed state and kicks off the first
// language resolution.
func (c *Controller) start() {
	c.view.ApplyStrings(LocalizedStrings(c.resolver))
	c.view.HidePanel()
	c.view.ShowLauncher()
	c.handle(LanguageIntent{})
}

// drain handles queued events until the queue is empty.
func (c *Controller) drain() {
	for {
		ev, ok := c.queue.pop()
		if !ok {
			return
		}
		c.handle(ev)
	}
}

func (c *Controller) handle(ev Event) {
	switch e := ev.(type) {
	case OpenIntent:
		c.open()
	case CloseIntent:
		c.close()
	case SubmitIntent:
		c.submit(e.Text)
	case LanguageIntent:
		c.changeLanguage(e.Code)
	case replyResult:
		c.replyDone(e)
	case languageChanged:
		c.relocalize(e.change)
	case streamTick:
		c.renderer.Advance(e.gen)
	case revealLauncher:
		if e.gen == c.closeGen && c.session.Visibility == Closed {
			c.view.ShowLauncher()
		}
	default:
		c.log.Warn().Str("event", ev.eventName()).Msg("unhandled event")
	}
}

func (c *Controller) open() {
	if !c.session.Open() {
		c.view.FocusInput()
		return
	}
	// Cancel a launcher reveal still pending from the last close.
	c.closeGen++
	c.view.HideLauncher()
	c.view.ShowPanel()
	if m := c.session.Welcome(KeyWelcome, c.resolver.T(KeyWelcome)); m != nil {
		c.view.AppendMessage(*m)
	}
	c.view.ScrollToBottom()
	c.view.FocusInput()
	c.log.Debug().Msg("panel opened")
}

func (c *Controller) close() {
	if !c.session.Close() {
		return
	}
	c.view.HidePanel()
	c.closeGen++
	gen := c.closeGen
	c.after(c.delay, func() { c.Post(revealLauncher{gen: gen}) })
	c.log.Debug().Str("status", c.session.Status.String()).Msg("panel closed")
}

func (c *Controller) submit(text string) {
	user, placeholder, ok := c.session.Submit(text, KeyThinking, c.resolver.T(KeyThinking))
	if !ok {
		return
	}
	c.view.AppendMessage(*user)
	c.view.AppendMessage(*placeholder)
	c.view.ClearInput()
	c.view.ScrollToBottom()

	req := reply.Request{
		Text:   text,
		UILang: c.resolver.Lang(),
	}
	if hint := c.detect(text); hint != langdetect.Unknown {
		req.Hint = hint
	}
	id := placeholder.ID
	ctx := c.ctx
	c.log.Debug().Str("hint", req.Hint).Int("chars", len([]rune(text))).Msg("sending message")

	c.spawn(func() {
		text, err := c.source.Send(ctx, req)
		c.Post(replyResult{id: id, text: text, err: err})
	})
}

func (c *Controller) replyDone(res replyResult) {
	if res.err != nil {
		key, text := KeyError, c.resolver.T(KeyError)
		if detail := reply.DetailOf(res.err); detail != "" {
			key, text = "", detail
		}
		m := c.session.Fail(res.id, key, text)
		if m == nil {
			return
		}
		c.log.Warn().Err(res.err).Msg("reply failed")
		c.view.UpdateMessage(*m)
		c.view.ScrollToBottom()
		return
	}

	m := c.session.Succeed(res.id)
	if m == nil {
		return
	}
	c.view.UpdateMessage(*m)
	slot := stream.SlotFunc(func(text string) {
		m.Text = text
		c.view.UpdateMessage(*m)
		c.view.ScrollToBottom()
	})
	c.renderer.Render(slot, strings.TrimSpace(res.text), func() {
		if settled := c.session.Settle(m.ID); settled != nil {
			c.view.UpdateMessage(*settled)
		}
	})
}

func (c *Controller) changeLanguage(code string) {
	ctx := c.ctx
	c.spawn(func() {
		res := c.resolver.Resolve(ctx, code)
		if res.Superseded {
			return
		}
		if res.Fallback {
			c.log.Info().Str("requested", code).Str("lang", res.Lang).Msg("language fell back to default")
		}
	})
}

// relocalize refreshes the chrome and every widget-authored message.
// User messages and bot replies are left untouched.
func (c *Controller) relocalize(ch i18n.Change) {
	c.view.ApplyStrings(LocalizedStrings(c.resolver))
	for _, m := range c.session.Messages {
		if !m.Localized() || m.State == Streaming {
			continue
		}
		text := c.resolver.T(m.Key)
		if text == m.Text {
			continue
		}
		m.Text = text
		c.view.UpdateMessage(*m)
	}
	c.log.Debug().Str("lang", ch.Lang).Str("previous", ch.Previous).Msg("widget relocalized")
}
