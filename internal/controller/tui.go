package controller

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/mouse-blink/munge/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	started bool
	done    chan struct{}
	err     error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program for the selected mode. The view mode
// prints tables directly and starts nothing.
func (t *TUI) Start(options ...StartOption) error {
	cfg := &StartConfig{mode: ModeMigrate}
	for _, opt := range options {
		opt(cfg)
	}

	width, height := t.terminalSize()

	switch cfg.mode {
	case ModeView:
		return nil
	case ModeEstimate:
		model := newEstimateModel()
		model.width, model.height = width, height

		return t.startWithModel(model, tea.WithAltScreen())
	default:
		model := newMigrateModel()
		model.width = width

		// Keyboard input stays with the terminal so ^C reaches the signal handler.
		return t.startWithModel(model, tea.WithInput(nil), tea.WithoutSignalHandler())
	}
}

func (t *TUI) startWithModel(model tea.Model, opts ...tea.ProgramOption) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts = append([]tea.ProgramOption{tea.WithOutput(t.output)}, opts...)
	t.program = tea.NewProgram(model, opts...)
	t.done = make(chan struct{})
	t.started = true

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			t.mu.Lock()
			t.err = err
			t.mu.Unlock()
		}
	}()

	return nil
}

func (t *TUI) isStarted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.started
}

func (t *TUI) ensureStarted() {
	if t.isStarted() {
		return
	}

	_ = t.Start()
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(msg)
}

// Close asks the program to finish and waits for it to exit.
func (t *TUI) Close() {
	if !t.isStarted() {
		return
	}

	t.send(finishMsg{})
	t.Wait()
}

// Wait blocks until the program exits.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// DisplayEstimation hands the candidate counts to the list view.
func (t *TUI) DisplayEstimation(sources []m.Source, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "estimation error: %v\n", err)

		return err
	}

	t.ensureStarted()
	t.send(newEstimationMsg(sources))

	return nil
}

// DisplayConcurrencyInfo shows the worker count and the planned work.
func (t *TUI) DisplayConcurrencyInfo(parallel int, files int, items int) {
	t.send(concurrencyMsg{parallel: parallel, files: files, items: items})
}

// DisplayProgress forwards a counter snapshot to the progress view.
func (t *TUI) DisplayProgress(state m.ProgressState) {
	t.send(progressMsg{state: state})
}

// DisplaySummary hands the per-file outcomes to the progress view, which
// renders them once the run finishes.
func (t *TUI) DisplaySummary(results []m.FileResult) error {
	t.send(summaryMsg{results: results})

	return nil
}

// DisplayFailures prints the failure table.
func (t *TUI) DisplayFailures(records []m.FailureRecord, err error) error {
	if err != nil {
		_, _ = fmt.Fprintf(t.output, "failure listing error: %v\n", err)

		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(t.output, "No failures recorded")

		return nil
	}

	_, err = fmt.Fprintf(t.output, "\n%s", renderFailuresTable(records))

	return err
}

func (t *TUI) terminalSize() (int, int) {
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			return width, height
		}
	}

	return 80, 24
}
