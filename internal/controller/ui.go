// Package controller renders migration progress and reports to the terminal.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/munge/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeMigrate
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to candidate listing mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithMigrateMode sets the UI to migration progress mode.
func WithMigrateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMigrate
	}
}

// WithViewMode sets the UI to failure listing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI displays candidate listings, migration progress and failure reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayEstimation(sources []m.Source, err error) error
	DisplayConcurrencyInfo(parallel int, files int, items int)
	// DisplayProgress renders a snapshot of the shared counters. It is called
	// with the progress lock held, so calls never interleave.
	DisplayProgress(state m.ProgressState)
	DisplaySummary(results []m.FileResult) error
	DisplayFailures(records []m.FailureRecord, err error) error
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea).
// When useTTY is false, it returns a SimpleUI (plain text).
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// NewPlainUI returns a SimpleUI that overwrites its progress lines in place
// when the output is a terminal.
func NewPlainUI(cmd *cobra.Command, overwrite bool) UI {
	ui := NewSimpleUI(cmd)
	ui.overwrite = overwrite

	return ui
}

// IsTTY checks if the given writer is a terminal (TTY).
// Returns false if the output is redirected to a file or pipe.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
