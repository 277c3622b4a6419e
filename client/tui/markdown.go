package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownStyle is the glamour standard style used for replies.
const markdownStyle = "dark"

// markdown renders replies as terminal markdown. Renderers are cached per
// wrap width since the columns only change width on resize.
type markdown struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

func newMarkdown() *markdown {
	return &markdown{renderers: map[int]*glamour.TermRenderer{}}
}

func (m *markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}

// Render formats content for a column of the given width, falling back to
// plain wrapping when the markdown cannot be rendered.
func (m *markdown) Render(content string, width int) string {
	r, err := m.renderer(width)
	if err != nil {
		return wrap(content, width)
	}
	out, err := r.Render(content)
	if err != nil {
		return wrap(content, width)
	}
	return strings.Trim(out, "\n")
}
