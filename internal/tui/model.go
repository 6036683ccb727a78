// Package tui renders the chat widget in a terminal with Bubble Tea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziadkadry99/dennischat/internal/widget"
)

// Controller receives the user's intents. *widget.Controller satisfies it.
type Controller interface {
	Open()
	Close()
	Submit(text string)
	ChangeLanguage(code string)
}

// Options configures a Model.
type Options struct {
	Controller Controller
	// Languages are cycled through with ctrl+l.
	Languages []string
	// Markdown renders settled bot replies with glamour.
	Markdown bool
}

// Model is the Bubble Tea model of the terminal widget. It only draws what
// the controller tells it through View and forwards key presses back as
// intents.
type Model struct {
	ctrl  Controller
	langs []string

	text     widget.Strings
	open     bool
	launcher bool
	messages []widget.Message
	index    map[string]int
	rendered map[string]string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	md       *glamour.TermRenderer
	styles   styles

	width  int
	height int
}

// New creates the model.
func New(opts Options) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctrl:     opts.Controller,
		langs:    opts.Languages,
		index:    map[string]int{},
		rendered: map[string]string{},
		input:    in,
		viewport: viewport.New(80, 16),
		spinner:  sp,
		styles:   defaultStyles(),
		width:    80,
		height:   24,
	}
	if opts.Markdown {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(72)); err == nil {
			m.md = r
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case panelMsg:
		m.open = msg.open
		if !m.open {
			m.input.Blur()
		}
		return m, nil

	case launcherMsg:
		m.launcher = msg.visible
		return m, nil

	case focusMsg:
		cmd := m.input.Focus()
		return m, cmd

	case clearInputMsg:
		m.input.Reset()
		return m, nil

	case appendMsg:
		m.index[msg.msg.ID] = len(m.messages)
		m.messages = append(m.messages, msg.msg)
		m.refresh()
		return m, nil

	case updateMsg:
		if i, ok := m.index[msg.msg.ID]; ok {
			m.messages[i] = msg.msg
			delete(m.rendered, msg.msg.ID)
			m.refresh()
		}
		return m, nil

	case scrollMsg:
		m.viewport.GotoBottom()
		return m, nil

	case stringsMsg:
		m.text = msg.strings
		m.input.Placeholder = msg.strings.Placeholder
		m.rendered = map[string]string{}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.hasPending() {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+l":
		if next := nextLang(m.langs, m.text.Lang); next != "" {
			m.ctrl.ChangeLanguage(next)
		}
		return m, nil
	}

	if !m.open {
		switch msg.String() {
		case "enter", "o", " ":
			m.ctrl.Open()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.ctrl.Close()
		return m, nil
	case "enter":
		m.ctrl.Submit(m.input.Value())
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	// header (2) + border (2) + input (1) + help (1)
	vh := h - 6
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = w - 4
	m.viewport.Height = vh
	m.input.Width = w - 10
	m.rendered = map[string]string{}
	m.refresh()
}

func (m Model) View() string {
	if !m.open {
		if !m.launcher {
			return ""
		}
		return m.styles.launcher.Render(m.text.Launcher) + "  " +
			m.styles.help.Render("enter: open · ctrl+l: "+m.text.LangName+" · ctrl+c: quit") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render(m.text.Title))
	b.WriteString("  ")
	b.WriteString(m.styles.lang.Render(m.text.LangName))
	b.WriteString("\n")
	b.WriteString(m.styles.subtitle.Render(m.text.Subtitle))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("⏎ " + m.text.Send + " · esc " + m.text.Close + " · " + m.text.Hint))

	return m.styles.panel.Width(m.width-2).Render(b.String()) + "\n"
}

// refresh rebuilds the transcript shown in the viewport.
func (m *Model) refresh() {
	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}
	align := lipgloss.Left
	if m.text.Dir == "rtl" {
		align = lipgloss.Right
	}

	var parts []string
	for _, msg := range m.messages {
		parts = append(parts, lipgloss.NewStyle().Width(width).Align(align).Render(m.renderMessage(msg, width)))
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
}

func (m *Model) renderMessage(msg widget.Message, width int) string {
	if msg.Role == widget.RoleUser {
		return m.styles.user.Render("› ") + wrap(msg.Text, width-2)
	}

	switch msg.State {
	case widget.Pending:
		return m.spinner.View() + " " + m.styles.pending.Render(msg.Text)
	case widget.Streaming:
		return wrap(msg.Text, width) + "▌"
	}

	if msg.Error {
		return m.styles.errorMsg.Render(wrap(msg.Text, width))
	}
	if m.md == nil || msg.Localized() {
		return m.styles.bot.Render(wrap(msg.Text, width))
	}
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out, err := m.md.Render(msg.Text)
	if err != nil {
		out = wrap(msg.Text, width)
	}
	out = strings.Trim(out, "\n")
	m.rendered[msg.ID] = out
	return out
}

func (m Model) hasPending() bool {
	for _, msg := range m.messages {
		if msg.State == widget.Pending {
			return true
		}
	}
	return false
}

// Input returns the current contents of the input line.
func (m Model) Input() string { return m.input.Value() }

// wrap breaks s into lines no wider than width without padding short lines.
func wrap(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// nextLang returns the language after current in langs, wrapping around.
func nextLang(langs []string, current string) string {
	if len(langs) == 0 {
		return ""
	}
	for i, l := range langs {
		if l == current {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}
