// Package display renders a single-line terminal status for CLI runs.
// It implements the runner's Reporter interface so the run loop stays
// unaware of presentation.
package display

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/backloop-dev/backloop/internal/backlog"
	"github.com/backloop-dev/backloop/internal/progress"
)

// state holds what the status line shows.
type state struct {
	Iteration   int
	TaskID      string
	Description string
	Started     time.Time
	Active      bool
}

// Display manages the terminal status line for a run.
type Display struct {
	mu       sync.Mutex
	writer   io.Writer
	state    state
	ticker   *time.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	running  bool
	lastLine string
}

// New creates a Display writing to the given writer.
func New(w io.Writer) *Display {
	return &Display{
		writer: w,
		done:   make(chan struct{}),
	}
}

// Start begins the periodic status-line updates.
func (d *Display) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.ticker = time.NewTicker(time.Second)
	d.wg.Add(1)
	d.mu.Unlock()

	go d.updateLoop()
}

// Stop halts updates and clears the status line. Blocks until the update
// goroutine has exited.
func (d *Display) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.ticker.Stop()
	close(d.done)
	d.wg.Wait()
	d.clearLine()
}

// CycleStarted implements runner.Reporter.
func (d *Display) CycleStarted(iteration int, task *backlog.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state{
		Iteration:   iteration,
		TaskID:      task.ID,
		Description: task.Description,
		Started:     time.Now(),
		Active:      true,
	}
}

// CycleFinished implements runner.Reporter. The cycle result is printed
// above the status line so it survives the next render.
func (d *Display) CycleFinished(iteration int, rec progress.Record) {
	d.mu.Lock()
	d.state.Active = false
	d.mu.Unlock()

	d.PrintAbove("cycle %d: %s %s (%s)", iteration, rec.TaskID, rec.Status, rec.BuildOutcome)
}

func (d *Display) updateLoop() {
	defer d.wg.Done()
	d.render()
	for {
		select {
		case <-d.ticker.C:
			d.render()
		case <-d.done:
			return
		}
	}
}

func (d *Display) render() {
	d.mu.Lock()
	st := d.state
	last := d.lastLine
	d.mu.Unlock()

	line := formatLine(st)
	if line == last {
		return
	}

	d.mu.Lock()
	d.lastLine = line
	d.mu.Unlock()

	fmt.Fprintf(d.writer, "\r\033[K%s", line)
}

func formatLine(st state) string {
	if !st.Active {
		return ""
	}

	desc := st.Description
	if len(desc) > 48 {
		desc = desc[:45] + "..."
	}

	elapsed := formatDuration(time.Since(st.Started))
	return fmt.Sprintf("Cycle %d │ %s: %s │ ⏱ %s", st.Iteration, st.TaskID, desc, elapsed)
}

func (d *Display) clearLine() {
	fmt.Fprintf(d.writer, "\r\033[K")
}

// PrintAbove prints a message above the status line.
func (d *Display) PrintAbove(format string, args ...interface{}) {
	d.clearLine()
	fmt.Fprintf(d.writer, format+"\n", args...)
	d.render()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
