// Package i18n resolves the widget's active language and serves lookups
// against the current and default dictionaries.
package i18n

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// DefaultLang is the canonical fallback language.
const DefaultLang = "en"

// SupportedLangs is the built-in set of language codes.
var SupportedLangs = []string{"en", "de", "fr", "es", "it", "pt", "ar", "ru", "zh"}

// PreferenceStore persists the last successfully resolved language.
type PreferenceStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, lang string) error
}

// Options configures a Resolver.
type Options struct {
	Store       Store
	Preferences PreferenceStore // optional
	Supported   []string
	Default     string
	// PageLang is the host's declared language, e.g. "de-AT".
	PageLang string
	Logger   zerolog.Logger
}

// Resolution is the outcome of a Resolve call.
type Resolution struct {
	Lang string
	Dict Dictionary
	// Fallback is set when the requested dictionary could not be loaded and
	// the default was used instead. Err holds the load failure.
	Fallback bool
	Err      error
	// Superseded is set when a newer Resolve started before this one
	// finished; nothing was applied.
	Superseded bool
}

// Change is broadcast to subscribers after a resolution is applied.
type Change struct {
	Lang     string
	Previous string
}

// Resolver owns the process-wide language state: the cached default
// dictionary, the current dictionary and the persisted preference.
type Resolver struct {
	store     Store
	prefs     PreferenceStore
	supported map[string]bool
	order     []string
	def       string
	pageLang  string
	log       zerolog.Logger

	group singleflight.Group
	seq   atomic.Uint64

	mu          sync.RWMutex
	fallback    Dictionary
	current     Dictionary
	lang        string
	override    string
	pref        string
	prefLoaded  bool
	subscribers map[int]func(Change)
	nextSub     int
}

// New creates a Resolver. Nothing is loaded until the first Resolve.
func New(opts Options) *Resolver {
	supported := opts.Supported
	if len(supported) == 0 {
		supported = SupportedLangs
	}
	def := strings.ToLower(opts.Default)
	if def == "" {
		def = DefaultLang
	}

	r := &Resolver{
		store:       opts.Store,
		prefs:       opts.Preferences,
		supported:   make(map[string]bool, len(supported)),
		def:         def,
		pageLang:    opts.PageLang,
		log:         opts.Logger.With().Str("component", "i18n").Logger(),
		lang:        def,
		subscribers: make(map[int]func(Change)),
	}
	for _, code := range supported {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" || r.supported[code] {
			continue
		}
		r.supported[code] = true
		r.order = append(r.order, code)
	}
	if !r.supported[def] {
		r.supported[def] = true
		r.order = append([]string{def}, r.order...)
	}
	return r
}

// Supported returns the supported codes in configuration order.
func (r *Resolver) Supported() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsSupported reports whether code is in the supported set.
func (r *Resolver) IsSupported(code string) bool {
	return r.supported[strings.ToLower(code)]
}

// Default returns the canonical default code.
func (r *Resolver) Default() string { return r.def }

// Lang returns the currently applied code.
func (r *Resolver) Lang() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lang
}

// Dir returns the text direction for the current language.
func (r *Resolver) Dir() string {
	if r.Lang() == "ar" {
		return "rtl"
	}
	return "ltr"
}

// Preference returns the persisted language, or "" when none is stored.
func (r *Resolver) Preference() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pref
}

// SetOverride pins an in-memory language for this session. It takes
// precedence over the persisted preference for Resolve calls without an
// explicit request and is never saved. An empty code clears it.
func (r *Resolver) SetOverride(code string) {
	r.mu.Lock()
	r.override = strings.ToLower(strings.TrimSpace(code))
	r.mu.Unlock()
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that completed the resolution.
func (r *Resolver) Subscribe(fn func(Change)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
	}
}

// T returns the translation for key: current dictionary, then the default
// dictionary, then key itself.
func (r *Resolver) T(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.current.Lookup(key); ok {
		return v
	}
	if v, ok := r.fallback.Lookup(key); ok {
		return v
	}
	return key
}

// Effective determines which code a Resolve(requested) would load.
func (r *Resolver) Effective(ctx context.Context, requested string) string {
	code, _ := r.effective(ctx, requested)
	return code
}

// effective also reports whether the code came from the session override.
func (r *Resolver) effective(ctx context.Context, requested string) (string, bool) {
	r.loadPreference(ctx)

	requested = strings.ToLower(strings.TrimSpace(requested))
	if r.supported[requested] {
		return requested, false
	}
	if requested != "" {
		// An explicit but unsupported request goes straight to the default.
		return r.def, false
	}

	r.mu.RLock()
	override, pref := r.override, r.pref
	r.mu.RUnlock()

	if r.supported[override] {
		return override, true
	}
	if r.supported[pref] {
		return pref, false
	}
	if code := r.baseLang(r.pageLang); code != "" {
		return code, false
	}
	return r.def, false
}

// Resolve loads the dictionary for the effective language and applies it.
// Load failures never surface as errors: the default dictionary is used and
// the failure is reported on the Resolution and in the log. A language
// chosen through the override is applied but not saved as the preference.
func (r *Resolver) Resolve(ctx context.Context, requested string) Resolution {
	seq := r.seq.Add(1)
	lang, pinned := r.effective(ctx, requested)

	fallback, fbErr := r.loadDefault(ctx)
	if fbErr != nil {
		r.log.Error().Err(fbErr).Str("lang", r.def).Msg("default dictionary unavailable")
	}

	if lang == r.def {
		if fbErr != nil {
			return r.apply(ctx, seq, Resolution{Lang: r.def, Dict: Dictionary{}, Fallback: true, Err: fbErr}, false)
		}
		return r.apply(ctx, seq, Resolution{Lang: r.def, Dict: fallback}, !pinned)
	}

	dict, err := r.fetch(ctx, lang)
	if err != nil {
		r.log.Warn().Err(err).Str("lang", lang).Str("fallback", r.def).Msg("dictionary load failed, using default")
		if fallback == nil {
			fallback = Dictionary{}
		}
		return r.apply(ctx, seq, Resolution{Lang: r.def, Dict: fallback, Fallback: true, Err: err}, false)
	}
	return r.apply(ctx, seq, Resolution{Lang: lang, Dict: dict}, !pinned)
}

// apply installs res unless a newer resolution has started. persist
// controls whether the preference is written.
func (r *Resolver) apply(ctx context.Context, seq uint64, res Resolution, persist bool) Resolution {
	r.mu.Lock()
	if seq != r.seq.Load() {
		r.mu.Unlock()
		res.Superseded = true
		r.log.Debug().Str("lang", res.Lang).Msg("resolution superseded")
		return res
	}
	previous := r.lang
	r.current = res.Dict
	r.lang = res.Lang
	if persist {
		r.pref = res.Lang
	}
	subs := make([]func(Change), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	if persist && r.prefs != nil {
		if err := r.prefs.Save(ctx, res.Lang); err != nil {
			r.log.Warn().Err(err).Str("lang", res.Lang).Msg("persisting language preference")
		}
	}

	r.log.Debug().Str("lang", res.Lang).Bool("fallback", res.Fallback).Int("keys", res.Dict.Len()).Msg("language applied")

	change := Change{Lang: res.Lang, Previous: previous}
	for _, fn := range subs {
		fn(change)
	}
	return res
}

// loadDefault returns the cached default dictionary, loading it on first use.
func (r *Resolver) loadDefault(ctx context.Context) (Dictionary, error) {
	r.mu.RLock()
	cached := r.fallback
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	dict, err := r.fetch(ctx, r.def)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.fallback == nil {
		r.fallback = dict
	}
	dict = r.fallback
	r.mu.Unlock()
	return dict, nil
}

// fetch coalesces concurrent loads of the same language.
func (r *Resolver) fetch(ctx context.Context, lang string) (Dictionary, error) {
	v, err, shared := r.group.Do(lang, func() (any, error) {
		return r.store.Fetch(ctx, lang)
	})
	if shared {
		r.log.Debug().Str("lang", lang).Msg("joined in-flight dictionary load")
	}
	if err != nil {
		return nil, err
	}
	return v.(Dictionary), nil
}

func (r *Resolver) loadPreference(ctx context.Context) {
	r.mu.RLock()
	loaded := r.prefLoaded
	r.mu.RUnlock()
	if loaded {
		return
	}

	var pref string
	if r.prefs != nil {
		p, err := r.prefs.Load(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("reading language preference")
		}
		pref = strings.ToLower(strings.TrimSpace(p))
	}

	r.mu.Lock()
	if !r.prefLoaded {
		r.pref = pref
		r.prefLoaded = true
	}
	r.mu.Unlock()
}

// baseLang maps a BCP-47 tag such as "de-AT" onto a supported code.
func (r *Resolver) baseLang(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if code := strings.ToLower(tag); r.supported[code] {
		return code
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, _ := t.Base()
	if code := base.String(); r.supported[code] {
		return code
	}
	return ""
}
