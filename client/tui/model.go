// Package tui renders the two persona replies around the user's latest
// message in a terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/viant/divinity/genai/persona"
	"github.com/viant/divinity/genai/transcript"
)

// Chat is the orchestrator surface the view needs.
type Chat interface {
	Submit(ctx context.Context, text string) error
	SetPair(pair persona.Pair)
	Pair() persona.Pair
	Transcript() transcript.Transcript
	Loading() bool
}

type submitDoneMsg struct {
	err error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx      context.Context
	chat     Chat
	catalog  *persona.Catalog
	notifier *Notifier
	logger   logr.Logger

	pending    bool
	statusLine string
	failed     bool

	width  int
	height int

	input   textinput.Model
	spinner spinner.Model
	theme   theme
	md      *markdown
}

// Option customizes the model.
type Option func(m *Model)

// WithLogger sets the logger that receives turn failures.
func WithLogger(logger logr.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithContext sets the context passed to every turn.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New creates the chat screen. notifier must be the listener registered with chat.
func New(chat Chat, catalog *persona.Catalog, notifier *Notifier, opts ...Option) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = "Ask both of them something. Ctrl+P switches personas."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = spinnerStyle

	m := Model{
		ctx:        context.Background(),
		chat:       chat,
		catalog:    catalog,
		notifier:   notifier,
		logger:     logr.Discard(),
		statusLine: "ready",
		input:      input,
		spinner:    sp,
		theme:      newTheme(),
		md:         newMarkdown(),
		width:      96,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitChange())
}

func (m Model) waitChange() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	return waitChange(m.notifier.ch)
}

func (m Model) busy() bool {
	return m.pending || m.chat.Loading()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case changedMsg:
		return m, m.waitChange()
	case submitDoneMsg:
		m.pending = false
		m.failed = msg.err != nil
		if msg.err != nil {
			m.logger.Error(msg.err, "turn failed")
			m.statusLine = "reply failed: " + msg.err.Error()
		} else {
			m.statusLine = "ready"
		}
		m.input.Focus()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+p":
			if m.busy() || m.catalog == nil || len(m.catalog.Pairs) == 0 {
				return m, nil
			}
			next := m.catalog.Next(m.chat.Pair().ID)
			m.chat.SetPair(next)
			m.statusLine = "personas: " + next.Label
			return m, nil
		case "enter":
			if m.busy() {
				return m, nil
			}
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			m.pending = true
			m.failed = false
			m.statusLine = "waiting for both replies"
			return m, m.submit(text)
		}
		if m.busy() {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(text string) tea.Cmd {
	chat, ctx := m.chat, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: chat.Submit(ctx, text)}
	}
}

func (m Model) View() string {
	pair := m.chat.Pair()
	tr := m.chat.Transcript()
	loading := m.busy()

	columnWidth := max((m.width-8)/3, 12)
	column := func(title string, slot transcript.Slot) string {
		body := m.theme.muted.Render("…")
		if msg, ok := tr.Latest(slot); ok {
			switch {
			case msg.Content != "":
				body = m.md.Render(msg.Content, columnWidth-6)
			case loading:
				body = m.spinner.View()
			}
		}
		return m.theme.panel.Width(columnWidth).Render(m.theme.title.Render(title) + "\n\n" + body)
	}

	header := m.theme.header.Render(fmt.Sprintf("divinity · %s", labelOf(pair)))
	columns := joinColumns(
		column(nameOf(pair.A), transcript.SlotPersonaA),
		column("You", transcript.SlotUser),
		column(nameOf(pair.B), transcript.SlotPersonaB),
	)
	status := m.theme.status.Render(m.statusLine)
	if m.failed {
		status = m.theme.errorStatus.Render(m.statusLine)
	}
	if loading {
		status = m.spinner.View() + " " + status
	}
	input := m.theme.inputPanel.Width(max(m.width-4, 20)).Render(m.input.View())
	return strings.Join([]string{header, columns, input, status}, "\n")
}

func labelOf(pair persona.Pair) string {
	if pair.Label != "" {
		return pair.Label
	}
	return pair.ID
}

func nameOf(p persona.Persona) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
