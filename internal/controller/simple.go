package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/munge/internal/model"
)

// clearTwoLines moves the cursor up over the previous two progress lines and
// erases them.
const clearTwoLines = "\x1b[1F\x1b[2K\x1b[1F\x1b[2K"

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd       *cobra.Command
	overwrite bool
	printed   bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

// Wait returns immediately; SimpleUI has nothing to wait for.
func (s *SimpleUI) Wait() {
}

// DisplayEstimation prints the candidate counts per file or the error.
func (s *SimpleUI) DisplayEstimation(sources []m.Source, err error) error {
	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(sources))

	return nil
}

// DisplayConcurrencyInfo shows the worker count and the planned work.
func (s *SimpleUI) DisplayConcurrencyInfo(parallel int, files int, items int) {
	s.printf("Checking %d candidates in %d files with %d worker(s)\n", items, files, parallel)
}

// DisplayProgress prints the two progress lines, replacing the previous two
// when overwriting is enabled.
func (s *SimpleUI) DisplayProgress(state m.ProgressState) {
	if s.overwrite && s.printed {
		s.printf("%s", clearTwoLines)
	}

	s.printf("%s", formatProgress(state))
	s.printed = true
}

// DisplaySummary prints the per-file outcome table.
func (s *SimpleUI) DisplaySummary(results []m.FileResult) error {
	s.printf("\n%s", renderSummaryTable(results))

	return nil
}

// DisplayFailures prints the persisted failure records or the error.
func (s *SimpleUI) DisplayFailures(records []m.FailureRecord, err error) error {
	if err != nil {
		s.printf("failure listing error: %v\n", err)
		return err
	}

	if len(records) == 0 {
		s.printf("No failures recorded\n")
		return nil
	}

	s.printf("\n%s", renderFailuresTable(records))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatProgress(state m.ProgressState) string {
	return fmt.Sprintf("%d/%d files (%s)\n%d/%d (%d) items (%s)\n",
		state.FilesDone, state.FilesTotal, state.LastFile,
		state.ItemsDone, state.ItemsTotal, state.ItemsChanged, state.LastItem)
}

func renderEstimationTable(sources []m.Source) string {
	sorted := make([]m.Source, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Descriptions", "Enable", "Candidates"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, src := range sorted {
		descriptions, enables := countKinds(src.Candidates)
		total += len(src.Candidates)

		table.Append([]string{
			string(src.Path),
			fmt.Sprintf("%d", descriptions),
			fmt.Sprintf("%d", enables),
			fmt.Sprintf("%d", len(src.Candidates)),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sorted)),
		"", "",
		fmt.Sprintf("%d", total),
	})

	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(results []m.FileResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Committed", "Mismatch", "Build Error"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	var committed, rejected, failed int

	for _, r := range results {
		committed += r.Committed
		rejected += r.Rejected
		failed += r.Failed

		table.Append([]string{
			string(r.Source.Path),
			fmt.Sprintf("%d", r.Committed),
			fmt.Sprintf("%d", r.Rejected),
			fmt.Sprintf("%d", r.Failed),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("%d", committed),
		fmt.Sprintf("%d", rejected),
		fmt.Sprintf("%d", failed),
	})

	table.Render()

	return tableBuffer.String()
}

func renderFailuresTable(records []m.FailureRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Index", "Kind", "Span", "Reason"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, r := range records {
		table.Append([]string{
			string(r.File),
			fmt.Sprintf("%d", r.Index),
			string(r.Candidate.Kind()),
			fmt.Sprintf("%d-%d", r.Candidate.Span.Start, r.Candidate.Span.End),
			string(r.Reason),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(records)), "", "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func countKinds(candidates []m.Candidate) (descriptions, enables int) {
	for _, c := range candidates {
		if c.Kind() == m.CandidateEnable {
			enables++
			continue
		}

		descriptions++
	}

	return descriptions, enables
}
