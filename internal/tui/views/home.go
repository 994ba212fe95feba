// Package views holds the individual TUI screens.
package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/backloop-dev/backloop/internal/config"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/runner"
	"github.com/backloop-dev/backloop/internal/tui/components"
	"github.com/backloop-dev/backloop/internal/tui/msgs"
	"github.com/backloop-dev/backloop/internal/tui/styles"
)

// MenuItem represents a menu option in the home view.
type MenuItem struct {
	Label       string
	Shortcut    string
	Description string
}

// HomeModel is the landing screen: a project picker plus an action menu.
type HomeModel struct {
	projects   []project.Project
	projCursor int

	items  []MenuItem
	cursor int

	statusLines []string
	errorMsg    string

	width  int
	height int
}

// NewHomeModel creates a HomeModel over the discovered projects.
func NewHomeModel(projects []project.Project) HomeModel {
	return HomeModel{
		projects: projects,
		items: []MenuItem{
			{Label: "Show Status", Shortcut: "s", Description: "Counts and the next eligible task"},
			{Label: "Run Once", Shortcut: "r", Description: "One select/invoke/evaluate cycle"},
			{Label: "Run Continuously", Shortcut: "c", Description: "Repeat cycles until done, blocked, or capped"},
			{Label: "Quit", Shortcut: "q", Description: ""},
		},
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if len(m.projects) == 0 {
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.projCursor = (m.projCursor + 1) % len(m.projects)
			m.statusLines = nil
		case "shift+tab", "left", "h":
			m.projCursor = (m.projCursor + len(m.projects) - 1) % len(m.projects)
			m.statusLines = nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "s":
			return m.showStatus()
		case "r":
			return m.startRun(false)
		case "c":
			return m.startRun(true)
		case "enter":
			switch m.items[m.cursor].Shortcut {
			case "s":
				return m.showStatus()
			case "r":
				return m.startRun(false)
			case "c":
				return m.startRun(true)
			case "q":
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// showStatus performs the read-only selection phase for the current project
// and renders the result inline. Status never mutates project files, so a
// synchronous call is safe here.
func (m HomeModel) showStatus() (HomeModel, tea.Cmd) {
	proj := m.projects[m.projCursor]

	cfg, err := config.Load(proj.ConfigPath())
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}

	summary, next, err := runner.New(proj, cfg).Status()
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}

	m.errorMsg = ""
	m.statusLines = []string{
		fmt.Sprintf("Outcome:   %s", summary.Outcome),
		fmt.Sprintf("Completed: %d/%d", summary.Completed, summary.TotalFeatures),
		fmt.Sprintf("Pending:   %d", summary.Pending),
	}
	if next != nil {
		m.statusLines = append(m.statusLines, fmt.Sprintf("Next task: %s  %s", next.ID, next.Description))
	}
	if summary.Reason != "" {
		m.statusLines = append(m.statusLines, fmt.Sprintf("Reason:    %s", summary.Reason))
	}
	return m, nil
}

func (m HomeModel) startRun(continuous bool) (HomeModel, tea.Cmd) {
	proj := m.projects[m.projCursor]
	return m, func() tea.Msg {
		return msgs.StartRunMsg{Project: proj, Continuous: continuous}
	}
}

// View implements tea.Model.
func (m HomeModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if len(m.projects) == 0 {
		return m.renderNoProjectsView()
	}
	return m.renderNormalView()
}

// renderHeader returns the centered title and tagline.
func (m HomeModel) renderHeader() (titleLine, taglineLine string) {
	title := styles.TitleStyle.Render("B A C K L O O P")
	tagline := styles.SubtleStyle.Render("Sequential Task Loop for Coding Agents")

	titleLine = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)
	taglineLine = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tagline)
	return titleLine, taglineLine
}

func (m HomeModel) renderNormalView() string {
	var b strings.Builder

	titleLine, taglineLine := m.renderHeader()

	projLine := fmt.Sprintf("Project: %s  (%d/%d, tab to switch)",
		styles.SelectedStyle.Render(m.projects[m.projCursor].Name()),
		m.projCursor+1, len(m.projects))

	var menuLines []string
	for i, item := range m.items {
		line := "[" + item.Shortcut + "] " + item.Label
		if i == m.cursor {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = styles.SubtleStyle.Render(line)
		}
		if item.Description != "" {
			line += "  " + styles.SubtleStyle.Render(item.Description)
		}
		menuLines = append(menuLines, line)
	}
	menu := strings.Join(menuLines, "\n")

	statusBarHeight := 1
	contentHeight := 2 + 2 + 2 + len(menuLines)
	if len(m.statusLines) > 0 {
		contentHeight += len(m.statusLines) + 1
	}
	if m.errorMsg != "" {
		contentHeight += 2
	}
	availableHeight := m.height - statusBarHeight

	topPadding := (availableHeight - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	b.WriteString(strings.Repeat("\n", topPadding))
	b.WriteString(titleLine)
	b.WriteString("\n")
	b.WriteString(taglineLine)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, projLine))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menu))

	if len(m.statusLines) > 0 {
		b.WriteString("\n\n")
		status := strings.Join(m.statusLines, "\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, status))
	}
	if m.errorMsg != "" {
		b.WriteString("\n\n")
		errorLine := styles.ErrorStyle.Render(m.errorMsg)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, errorLine))
	}

	currentLines := topPadding + contentHeight
	bottomPadding := availableHeight - currentLines
	if bottomPadding < 0 {
		bottomPadding = 0
	}
	b.WriteString(strings.Repeat("\n", bottomPadding))

	statusItems := []string{"↑↓ Navigate", "Tab Project", "Enter Select", "q Quit"}
	b.WriteString(components.RenderHelpBar(m.width, statusItems))

	return b.String()
}

// renderNoProjectsView renders the view when no project has a feature list.
func (m HomeModel) renderNoProjectsView() string {
	var b strings.Builder

	titleLine, taglineLine := m.renderHeader()

	warning1 := styles.ErrorStyle.Render("No projects found.")
	warning2 := styles.SubtleStyle.Render("Run 'backloop init <dir>' first to create a feature list.")

	statusBarHeight := 1
	contentHeight := 6
	availableHeight := m.height - statusBarHeight

	topPadding := (availableHeight - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	b.WriteString(strings.Repeat("\n", topPadding))
	b.WriteString(titleLine)
	b.WriteString("\n")
	b.WriteString(taglineLine)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, warning1))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, warning2))

	currentLines := topPadding + contentHeight
	bottomPadding := availableHeight - currentLines
	if bottomPadding < 0 {
		bottomPadding = 0
	}
	b.WriteString(strings.Repeat("\n", bottomPadding))

	b.WriteString(components.RenderHelpBar(m.width, []string{"q Quit"}))

	return b.String()
}

// SetSize updates the model dimensions.
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the current menu cursor position.
func (m HomeModel) Cursor() int {
	return m.cursor
}

// SelectedProject returns the currently highlighted project.
func (m HomeModel) SelectedProject() project.Project {
	return m.projects[m.projCursor]
}

// HasProjects reports whether any project was discovered.
func (m HomeModel) HasProjects() bool {
	return len(m.projects) > 0
}

// SetError sets an error message to display.
func (m *HomeModel) SetError(msg string) {
	m.errorMsg = msg
}

// Error returns the current error message.
func (m HomeModel) Error() string {
	return m.errorMsg
}
