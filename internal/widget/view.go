package widget

import "github.com/ziadkadry99/dennischat/internal/i18n"

// Dictionary keys used by the widget.
const (
	KeyTitle       = "chat.title"
	KeySubtitle    = "chat.subtitle"
	KeyLauncher    = "chat.launcher"
	KeyPlaceholder = "chat.placeholder"
	KeySend        = "chat.send"
	KeyClose       = "chat.close"
	KeyWelcome     = "chat.welcome"
	KeyThinking    = "chat.thinking"
	KeyError       = "chat.error"
	KeyHint        = "chat.hint"
	KeyLangName    = "lang.name"
)

// Strings is the localized chrome of the widget.
type Strings struct {
	Lang        string
	Dir         string
	LangName    string
	Title       string
	Subtitle    string
	Launcher    string
	Placeholder string
	Send        string
	Close       string
	Hint        string
}

// LocalizedStrings reads the widget chrome from r.
func LocalizedStrings(r *i18n.Resolver) Strings {
	return Strings{
		Lang:        r.Lang(),
		Dir:         r.Dir(),
		LangName:    r.T(KeyLangName),
		Title:       r.T(KeyTitle),
		Subtitle:    r.T(KeySubtitle),
		Launcher:    r.T(KeyLauncher),
		Placeholder: r.T(KeyPlaceholder),
		Send:        r.T(KeySend),
		Close:       r.T(KeyClose),
		Hint:        r.T(KeyHint),
	}
}

// View is the UI layer. Only the controller's loop goroutine calls it, so
// implementations need no locking of their own unless they hand work to
// another goroutine.
type View interface {
	ShowPanel()
	HidePanel()
	ShowLauncher()
	HideLauncher()
	FocusInput()
	ClearInput()
	AppendMessage(m Message)
	UpdateMessage(m Message)
	ScrollToBottom()
	ApplyStrings(s Strings)
}
