package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/dennischat/internal/widget"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// SendFunc adapts a function to Sender. It lets the view be built before
// the program it sends to.
type SendFunc func(msg tea.Msg)

func (f SendFunc) Send(msg tea.Msg) { f(msg) }

// View adapts the widget controller's view calls into Bubble Tea messages so
// all drawing happens on the program's own goroutine.
type View struct {
	out Sender
}

// NewView returns a widget.View that forwards to out.
func NewView(out Sender) *View {
	return &View{out: out}
}

type (
	panelMsg      struct{ open bool }
	launcherMsg   struct{ visible bool }
	focusMsg      struct{}
	clearInputMsg struct{}
	appendMsg     struct{ msg widget.Message }
	updateMsg     struct{ msg widget.Message }
	scrollMsg     struct{}
	stringsMsg    struct{ strings widget.Strings }
)

func (v *View) ShowPanel()                     { v.out.Send(panelMsg{open: true}) }
func (v *View) HidePanel()                     { v.out.Send(panelMsg{open: false}) }
func (v *View) ShowLauncher()                  { v.out.Send(launcherMsg{visible: true}) }
func (v *View) HideLauncher()                  { v.out.Send(launcherMsg{visible: false}) }
func (v *View) FocusInput()                    { v.out.Send(focusMsg{}) }
func (v *View) ClearInput()                    { v.out.Send(clearInputMsg{}) }
func (v *View) AppendMessage(m widget.Message) { v.out.Send(appendMsg{msg: m}) }
func (v *View) UpdateMessage(m widget.Message) { v.out.Send(updateMsg{msg: m}) }
func (v *View) ScrollToBottom()                { v.out.Send(scrollMsg{}) }
func (v *View) ApplyStrings(s widget.Strings)  { v.out.Send(stringsMsg{strings: s}) }
