package controller

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/munge/internal/model"
)

// migrateModel shows the shared counters while files are being verified and
// the per-file outcome once the run is over.
type migrateModel struct {
	width    int
	filesBar progress.Model
	itemsBar progress.Model
	state    m.ProgressState
	parallel int
	results  []m.FileResult
	rendered bool
	finished bool
}

func newMigrateModel() migrateModel {
	newBar := func() progress.Model {
		return progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		)
	}

	return migrateModel{
		width:    80,
		filesBar: newBar(),
		itemsBar: newBar(),
	}
}

func (m migrateModel) Init() tea.Cmd {
	return nil
}

func (m migrateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case concurrencyMsg:
		m.parallel = msg.parallel
		m.state.FilesTotal = msg.files
		m.state.ItemsTotal = msg.items
		m.rendered = true

	case progressMsg:
		m.state = msg.state
		m.rendered = true

	case summaryMsg:
		m.results = msg.results

	case finishMsg:
		m.finished = true

		return m, tea.Quit
	}

	return m, nil
}

func (m migrateModel) View() string {
	if !m.rendered {
		return "Preparing workspaces…\n"
	}

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	title := titleStyle.Render("munge: DocBook → Markdown")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Files: %s / %s  •  Items: %s / %s  •  Changed: %s  •  Workers: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.state.FilesDone)),
		accentStyle.Render(fmt.Sprintf("%d", m.state.FilesTotal)),
		accentStyle.Render(fmt.Sprintf("%d", m.state.ItemsDone)),
		accentStyle.Render(fmt.Sprintf("%d", m.state.ItemsTotal)),
		accentStyle.Render(fmt.Sprintf("%d", m.state.ItemsChanged)),
		accentStyle.Render(fmt.Sprintf("%d", m.parallel)),
	))

	sections := []string{title, summary, m.renderBars()}

	if m.finished && len(m.results) > 0 {
		sections = append(sections, m.renderResults())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m migrateModel) renderBars() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(7)
	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	available := m.width - 4 - 7 - 1

	row := func(label string, bar progress.Model, done, total int, current string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(label)+" "+bar.ViewAs(ratio(done, total)),
			labelStyle.Render("")+" "+currentStyle.Render(truncateToWidth(current, available)),
		)
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		row("files", m.filesBar, m.state.FilesDone, m.state.FilesTotal, m.state.LastFile),
		row("items", m.itemsBar, m.state.ItemsDone, m.state.ItemsTotal, m.state.LastItem),
	))
}

func (m migrateModel) renderResults() string {
	results := append(m.results[:0:0], m.results...)
	sort.Slice(results, func(i, j int) bool { return results[i].Source.Path < results[j].Source.Path })

	countStyle := lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	okStyle := countStyle.Foreground(lipgloss.Color("2"))   // Green
	failStyle := countStyle.Foreground(lipgloss.Color("1")) // Red
	neutral := countStyle.Foreground(lipgloss.Color("8"))   // Gray
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	style := func(s lipgloss.Style, n int) string {
		if n == 0 {
			return neutral.Render("0")
		}

		return s.Render(fmt.Sprintf("%d", n))
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8"))

	lines := []string{headerStyle.Render(fmt.Sprintf("%6s %6s %6s  %s", "Ok", "Diff", "Error", "File"))}
	pathWidth := m.width - 6 - 3*7 - 2

	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			style(okStyle, r.Committed),
			style(failStyle, r.Rejected),
			style(failStyle, r.Failed),
			pathStyle.Render(truncateToWidth(string(r.Source.Path), pathWidth)),
		))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(1, 1, 0, 1).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}

	r := float64(done) / float64(total)
	if r > 1 {
		return 1
	}

	return r
}
