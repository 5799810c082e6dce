package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	m "github.com/mouse-blink/munge/internal/model"
	"github.com/spf13/cobra"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplayEstimation_PrintsTable(t *testing.T) {
	ui, buf := newTestSimpleUI()

	sources := []m.Source{
		{Path: "nixos/b.nix", Candidates: []m.Candidate{{Span: m.Span{Start: 1, End: 2}}}},
		{Path: "nixos/a.nix", Candidates: []m.Candidate{
			{Span: m.Span{Start: 10, End: 20}},
			{Span: m.Span{Start: 1, End: 5}, RequiresParens: true},
		}},
	}

	if err := ui.DisplayEstimation(sources, nil); err != nil {
		t.Fatalf("DisplayEstimation() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"nixos/a.nix",
		"nixos/b.nix",
		"DESCRIPTIONS",
		"TOTAL FILES 2",
		"3",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}

	if strings.Index(output, "nixos/a.nix") > strings.Index(output, "nixos/b.nix") {
		t.Fatalf("rows not sorted by path\noutput:\n%s", output)
	}
}

func TestSimpleUI_DisplayEstimation_Error(t *testing.T) {
	ui, buf := newTestSimpleUI()
	boom := errors.New("boom")

	if err := ui.DisplayEstimation(nil, boom); err == nil {
		t.Fatalf("DisplayEstimation() expected error")
	}

	if !strings.Contains(buf.String(), "estimation error: boom") {
		t.Fatalf("output missing error message\noutput:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayProgress(t *testing.T) {
	state := m.ProgressState{
		FilesDone: 1, FilesTotal: 2, LastFile: "a.nix",
		ItemsDone: 3, ItemsTotal: 7, ItemsChanged: 2, LastItem: "check 3/4 in a.nix",
	}

	t.Run("plain output appends lines", func(t *testing.T) {
		ui, buf := newTestSimpleUI()
		ui.DisplayProgress(state)
		ui.DisplayProgress(state)

		want := "1/2 files (a.nix)\n3/7 (2) items (check 3/4 in a.nix)\n"
		if got := buf.String(); got != want+want {
			t.Fatalf("DisplayProgress() output = %q, want %q", got, want+want)
		}
	})

	t.Run("overwrite clears the previous two lines", func(t *testing.T) {
		ui, buf := newTestSimpleUI()
		ui.overwrite = true
		ui.DisplayProgress(state)
		ui.DisplayProgress(state)

		output := buf.String()
		if strings.HasPrefix(output, clearTwoLines) {
			t.Fatalf("first render must not clear\noutput: %q", output)
		}

		if strings.Count(output, clearTwoLines) != 1 {
			t.Fatalf("expected one clear sequence\noutput: %q", output)
		}
	})
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, buf := newTestSimpleUI()

	results := []m.FileResult{
		{Source: m.Source{Path: "a.nix"}, Committed: 2, Rejected: 1},
		{Source: m.Source{Path: "b.nix"}, Failed: 3},
	}

	if err := ui.DisplaySummary(results); err != nil {
		t.Fatalf("DisplaySummary() error = %v", err)
	}

	for _, want := range []string{"a.nix", "b.nix", "COMMITTED", "BUILD ERROR", "TOTAL FILES 2"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, buf.String())
		}
	}
}

func TestSimpleUI_DisplayFailures(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		ui, buf := newTestSimpleUI()

		records := []m.FailureRecord{
			{File: "a.nix", Index: 0, Reason: m.FailureMismatch, Candidate: m.Candidate{Span: m.Span{Start: 4, End: 9}}},
			{File: "a.nix", Index: 1, Reason: m.FailureBuild, Candidate: m.Candidate{RequiresParens: true}},
		}

		if err := ui.DisplayFailures(records, nil); err != nil {
			t.Fatalf("DisplayFailures() error = %v", err)
		}

		for _, want := range []string{"mismatch", "build-error", "4-9", "enable", "TOTAL 2"} {
			if !strings.Contains(buf.String(), want) {
				t.Fatalf("output missing %q\noutput:\n%s", want, buf.String())
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		ui, buf := newTestSimpleUI()

		if err := ui.DisplayFailures(nil, nil); err != nil {
			t.Fatalf("DisplayFailures() error = %v", err)
		}

		if !strings.Contains(buf.String(), "No failures recorded") {
			t.Fatalf("unexpected output %q", buf.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		ui, buf := newTestSimpleUI()

		if err := ui.DisplayFailures(nil, errors.New("boom")); err == nil {
			t.Fatalf("DisplayFailures() expected error")
		}

		if !strings.Contains(buf.String(), "failure listing error: boom") {
			t.Fatalf("unexpected output %q", buf.String())
		}
	})
}

func TestSimpleUI_Lifecycle(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.Start(WithMigrateMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.DisplayConcurrencyInfo(4, 2, 9)
	ui.Wait()
	ui.Close()

	if !strings.Contains(buf.String(), "Checking 9 candidates in 2 files with 4 worker(s)") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
