package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/config"
	"github.com/backloop-dev/backloop/internal/progress"
	"github.com/backloop-dev/backloop/internal/project"
	"github.com/backloop-dev/backloop/internal/runner"
	"github.com/backloop-dev/backloop/internal/tui/components"
	"github.com/backloop-dev/backloop/internal/tui/msgs"
	"github.com/backloop-dev/backloop/internal/tui/styles"
)

// runState represents the current state of the run view.
type runState int

const (
	stateRunning runState = iota
	stateCancelling
	stateDone
	stateCancelled
)

// Message types for loop events

// LoopStartedMsg signals that the run loop has started and provides a
// cancel handle.
type LoopStartedMsg struct {
	Cancel context.CancelFunc
}

// CycleStartedMsg is sent when a cycle begins.
type CycleStartedMsg struct {
	Iteration int
	TaskID    string
	TaskDesc  string
}

// CycleFinishedMsg is sent when a cycle's evaluation completes.
type CycleFinishedMsg struct {
	Iteration int
	Record    progress.Record
}

// LoopDoneMsg signals that the run loop has halted.
type LoopDoneMsg struct {
	Summary *runner.Summary
	Err     error
}

// tickMsg is used for elapsed time updates.
type tickMsg time.Time

// RunModel is the execution monitor view for a single or continuous run.
type RunModel struct {
	state      runState
	proj       project.Project
	continuous bool

	iteration int
	taskID    string
	taskDesc  string
	startTime time.Time

	spinner spinner.Model
	log     components.LogView

	send   func(tea.Msg)
	cancel context.CancelFunc

	summary  *runner.Summary
	finalErr error

	width  int
	height int
}

// NewRunModel creates a RunModel for the given project. send delivers
// messages from the run-loop goroutine back into the Bubble Tea program.
func NewRunModel(proj project.Project, continuous bool, send func(tea.Msg)) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return RunModel{
		state:      stateRunning,
		proj:       proj,
		continuous: continuous,
		startTime:  time.Now(),
		spinner:    s,
		log:        components.NewLogView(80, 20, 0),
		send:       send,
	}
}

// Init implements tea.Model.
func (m RunModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.tickCmd(),
		m.startLoop(),
	)
}

func (m RunModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startLoop builds the run loop and launches it in a goroutine. Cycle
// notifications flow back as messages via the reporter.
func (m RunModel) startLoop() tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.Load(m.proj.ConfigPath())
		if err != nil {
			return LoopDoneMsg{Err: err}
		}

		ctx, cancel := context.WithCancel(context.Background())
		loop := runner.New(m.proj, cfg).WithReporter(&loopEvents{send: m.send})

		continuous := m.continuous
		send := m.send
		go func() {
			var summary *runner.Summary
			var runErr error
			if continuous {
				summary, runErr = loop.RunContinuous(ctx)
			} else {
				summary, runErr = loop.RunSingle(ctx)
			}
			send(LoopDoneMsg{Summary: summary, Err: runErr})
		}()

		return LoopStartedMsg{Cancel: cancel}
	}
}

// Update implements tea.Model.
func (m RunModel) Update(msg tea.Msg) (RunModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLogSize()
		return m, nil

	case spinner.TickMsg:
		if m.state == stateRunning || m.state == stateCancelling {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tickMsg:
		if m.state == stateRunning || m.state == stateCancelling {
			return m, m.tickCmd()
		}
		return m, nil

	case LoopStartedMsg:
		m.cancel = msg.Cancel
		if m.state == stateCancelling && m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil

	case CycleStartedMsg:
		m.iteration = msg.Iteration
		m.taskID = msg.TaskID
		m.taskDesc = msg.TaskDesc
		m.log.AddLine(fmt.Sprintf("cycle %d: %s  %s", msg.Iteration, msg.TaskID, msg.TaskDesc))
		return m, nil

	case CycleFinishedMsg:
		rec := msg.Record
		m.log.AddLine(fmt.Sprintf("cycle %d: %s %s", msg.Iteration, m.statusIndicator(rec.Status), rec.Summary))
		for _, f := range rec.ModifiedFiles {
			m.log.AddLine(styles.SubtleStyle.Render("    modified: " + f))
		}
		return m, nil

	case LoopDoneMsg:
		if m.state == stateCancelling {
			m.state = stateCancelled
		} else {
			m.state = stateDone
		}
		m.summary = msg.Summary
		m.finalErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m RunModel) handleKeyPress(msg tea.KeyMsg) (RunModel, tea.Cmd) {
	switch m.state {
	case stateRunning:
		switch msg.String() {
		case "ctrl+c":
			// Graceful stop: cancel the loop context; the in-flight agent
			// subprocess dies with it. If the loop isn't wired yet, cancel
			// as soon as LoopStartedMsg arrives.
			m.state = stateCancelling
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			return m, nil
		case "up", "k", "pgup", "ctrl+u", "down", "j", "pgdown", "ctrl+d", "home", "g", "end", "G":
			var cmd tea.Cmd
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		}

	case stateCancelling:
		switch msg.String() {
		case "up", "k", "pgup", "ctrl+u", "down", "j", "pgdown", "ctrl+d", "home", "g", "end", "G":
			var cmd tea.Cmd
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		}

	case stateDone, stateCancelled:
		switch msg.String() {
		case "enter", "h":
			return m, func() tea.Msg { return msgs.GoToHomeMsg{} }
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *RunModel) updateLogSize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	logWidth := m.width - 4
	logHeight := m.height - 7 // title + header lines + borders + status bar
	if logWidth < 10 {
		logWidth = 10
	}
	if logHeight < 3 {
		logHeight = 3
	}
	m.log.SetSize(logWidth, logHeight)
}

// View implements tea.Model.
func (m RunModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.state {
	case stateRunning, stateCancelling:
		return m.renderRunning()
	default:
		return m.renderDone()
	}
}

func (m RunModel) renderRunning() string {
	var b strings.Builder

	mode := "run once"
	if m.continuous {
		mode = "continuous"
	}
	title := styles.TitleStyle.Render(fmt.Sprintf("Running %s (%s)", m.proj.Name(), mode))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	elapsed := formatDuration(time.Since(m.startTime))
	header := fmt.Sprintf("%s cycle %d  %s", m.spinner.View(), m.iteration, elapsed)
	if m.taskID != "" {
		header += "  " + styles.SubtleStyle.Render(m.taskID+"  "+m.taskDesc)
	}
	if m.state == stateCancelling {
		header = styles.WarnStyle.Render("Stopping after the current subprocess exits...")
	}
	b.WriteString(" " + header)
	b.WriteString("\n\n")

	b.WriteString(m.log.View())
	b.WriteString("\n")

	statusItems := []string{"Running...", "Ctrl+C Stop", "↑↓ Scroll"}
	if m.state == stateCancelling {
		statusItems = []string{"Stopping...", "Waiting for cleanup"}
	}
	b.WriteString(components.RenderHelpBar(m.width, statusItems))

	return b.String()
}

func (m RunModel) renderDone() string {
	var b strings.Builder

	var title string
	switch {
	case m.state == stateCancelled:
		title = styles.SubtleStyle.Render("Run Cancelled")
	case m.summary != nil && (m.summary.Outcome == runner.OutcomeDone.String() || m.summary.Outcome == runner.OutcomeCycleDone.String()):
		title = styles.SuccessStyle.Render("Run Finished")
	default:
		title = styles.ErrorStyle.Render("Run Halted")
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	if m.summary != nil {
		lines = append(lines,
			fmt.Sprintf("Outcome:    %s", m.summary.Outcome),
			fmt.Sprintf("Completed:  %d/%d", m.summary.Completed, m.summary.TotalFeatures),
			fmt.Sprintf("Pending:    %d", m.summary.Pending),
			fmt.Sprintf("Iterations: %d", m.summary.Iterations),
		)
		if m.summary.LastTaskID != "" {
			lines = append(lines, fmt.Sprintf("Last task:  %s", m.summary.LastTaskID))
		}
		if m.summary.Reason != "" {
			lines = append(lines, fmt.Sprintf("Reason:     %s", m.summary.Reason))
		}
	} else if m.finalErr != nil {
		lines = append(lines, styles.ErrorStyle.Render(m.finalErr.Error()))
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	homeOption := styles.SelectedStyle.Render("[Enter]") + " Return to home"
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, homeOption))
	b.WriteString("\n")

	count := strings.Count(b.String(), "\n") + 1
	remaining := m.height - count - 1
	if remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.RenderHelpBar(m.width, []string{"Enter Home", "q Quit"}))

	return b.String()
}

func (m RunModel) statusIndicator(status string) string {
	switch status {
	case progress.StatusCompleted:
		return styles.SuccessStyle.Render("✓")
	case progress.StatusFailed:
		return styles.ErrorStyle.Render("✗")
	default:
		return styles.WarnStyle.Render("…")
	}
}

// SetSize updates the model dimensions.
func (m *RunModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateLogSize()
}

// State returns the current state of the model.
func (m RunModel) State() runState {
	return m.state
}

// Summary returns the halt summary, nil while running.
func (m RunModel) Summary() *runner.Summary {
	return m.summary
}

// formatDuration formats a duration as MM:SS or HH:MM:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%02d:%02d", mins, s)
}

// loopEvents forwards runner cycle notifications into the Bubble Tea
// program as messages.
type loopEvents struct {
	send func(tea.Msg)
}

func (e *loopEvents) CycleStarted(iteration int, task *backlog.Task) {
	e.send(CycleStartedMsg{
		Iteration: iteration,
		TaskID:    task.ID,
		TaskDesc:  task.Description,
	})
}

func (e *loopEvents) CycleFinished(iteration int, rec progress.Record) {
	e.send(CycleFinishedMsg{Iteration: iteration, Record: rec})
}

var _ runner.Reporter = (*loopEvents)(nil)
