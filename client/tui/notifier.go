package tui

import tea "github.com/charmbracelet/bubbletea"

// Notifier coalesces change notifications: any number of Notify calls between
// two reads collapse into one pending signal, so a fast stream never blocks
// the producer.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify signals a change without blocking.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

type changedMsg struct{}

func waitChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}
