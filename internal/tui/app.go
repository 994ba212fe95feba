// Package tui implements the interactive terminal UI.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backloop-dev/backloop/internal/logging"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/tui/msgs"
	"github.com/backloop-dev/backloop/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewHome View = iota
	ViewRun
)

// program is the running Bubble Tea program. The run-loop goroutine sends
// messages through it.
var program *tea.Program

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	home views.HomeModel
	run  views.RunModel
}

// Run starts the TUI application.
func Run() error {
	logging.SetQuiet()

	m, err := initialModel()
	if err != nil {
		return err
	}

	program = tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func initialModel() (Model, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Model{}, err
	}

	projects, err := project.Scan(cwd)
	if err != nil {
		return Model{}, err
	}

	return Model{
		currentView: ViewHome,
		home:        views.NewHomeModel(projects),
	}, nil
}

// sendMsg delivers a message into the running program. Safe to call from
// the run-loop goroutine.
func sendMsg(msg tea.Msg) {
	if program != nil {
		program.Send(msg)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home.SetSize(msg.Width, msg.Height)
		m.run.SetSize(msg.Width, msg.Height)

	case msgs.GoToHomeMsg:
		m.currentView = ViewHome
		m.home.SetSize(m.width, m.height)
		return m, nil

	case msgs.StartRunMsg:
		m.run = views.NewRunModel(msg.Project, msg.Continuous, sendMsg)
		m.run.SetSize(m.width, m.height)
		m.currentView = ViewRun
		return m, m.run.Init()
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewRun:
		m.run, cmd = m.run.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.currentView {
	case ViewRun:
		return m.run.View()
	default:
		return m.home.View()
	}
}
