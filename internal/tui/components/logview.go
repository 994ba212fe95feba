package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultLogViewMaxLines = 2000

// LogView wraps bubbles/viewport.Model with an append-only line buffer and
// auto-scroll tracking. Scrolling up pauses auto-scroll; returning to the
// bottom re-enables it.
type LogView struct {
	viewport   viewport.Model
	autoScroll bool
	lines      []string
	maxLines   int
}

// NewLogView creates a LogView with the given dimensions. maxLines caps the
// line buffer (0 uses the default of 2000).
func NewLogView(width, height, maxLines int) LogView {
	if maxLines <= 0 {
		maxLines = defaultLogViewMaxLines
	}

	vp := viewport.New(width, height)
	vp.SetContent("")

	return LogView{
		viewport:   vp,
		autoScroll: true,
		lines:      make([]string, 0, 64),
		maxLines:   maxLines,
	}
}

// SetSize updates the viewport dimensions.
func (l *LogView) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// AddLine appends a line, trimming the buffer to maxLines.
func (l *LogView) AddLine(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.maxLines {
		l.lines = l.lines[len(l.lines)-l.maxLines:]
	}

	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

// Update handles viewport key events.
func (l LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k", "pgup", "ctrl+u", "home", "g":
			l.autoScroll = false
		case "down", "j", "pgdown", "ctrl+d":
			if l.viewport.AtBottom() {
				l.autoScroll = true
			}
		case "end", "G":
			l.autoScroll = true
		}
	}

	return l, cmd
}

// View renders the viewport content.
func (l LogView) View() string {
	return l.viewport.View()
}

// Lines returns the buffered lines.
func (l LogView) Lines() []string {
	return l.lines
}
