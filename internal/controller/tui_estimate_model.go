package controller

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const countColumns = 3*7 + 2

// estimateDelegate renders one file row: description, enable and total counts, then the path.
type estimateDelegate struct {
	offset int
}

func (d estimateDelegate) Height() int  { return 1 }
func (d estimateDelegate) Spacing() int { return 0 }
func (d estimateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d estimateDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	file, ok := item.(fileItem)
	if !ok {
		return
	}

	countStyle := lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	totalStyle := countStyle.Foreground(lipgloss.Color("11")).Bold(true)
	width := l.Width() - countColumns

	displayPath := truncateToWidth(file.path, width)

	if index == l.Index() {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		countStyle = countStyle.Inherit(selected)
		totalStyle = totalStyle.Inherit(selected)
		pathStyle = selected
		displayPath = animateScroll(file.path, width, d.offset)
	}

	line := fmt.Sprintf("%s %s %s  %s",
		countStyle.Render(fmt.Sprintf("%d", file.descriptions)),
		countStyle.Render(fmt.Sprintf("%d", file.enables)),
		totalStyle.Render(fmt.Sprintf("%d", file.count())),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

// animateScroll shows a marquee window of width runes over text, starting
// after a short pause. Text that fits is returned unchanged.
func animateScroll(text string, width int, offset int) string {
	const (
		gap   = "   "
		pause = 5
	)

	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	start := (offset - pause) % len(runes)

	window := make([]rune, 0, width)
	for i := range width {
		window = append(window, runes[(start+i)%len(runes)])
	}

	return string(window)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// estimateModel lists the candidates found per file.
type estimateModel struct {
	width        int
	height       int
	fileList     list.Model
	delegate     estimateDelegate
	total        int
	totalFiles   int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newEstimateModel() estimateModel {
	delegate := estimateDelegate{}
	fileList := list.New([]list.Item{}, delegate, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	return estimateModel{
		width:        80,
		height:       24,
		fileList:     fileList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m estimateModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m estimateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetWidth(m.width)

	case tickMsg:
		if m.fileList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.fileList.SetDelegate(m.delegate)

			return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.fileList, cmd = m.fileList.Update(msg)

			if m.fileList.Index() != m.lastSelected {
				m.lastSelected = m.fileList.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.fileList.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case estimationMsg:
		m = m.handleEstimationMsg(msg)

	case finishMsg:
		return m, tea.Quit
	}

	return m, cmd
}

func (m estimateModel) handleEstimationMsg(msg estimationMsg) estimateModel {
	m.total = msg.total
	m.totalFiles = len(msg.files)

	files := append(msg.files[:0:0], msg.files...)
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	items := make([]list.Item, 0, len(files))
	for _, f := range files {
		items = append(items, f)
	}

	m.fileList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m estimateModel) View() string {
	if !m.rendered {
		return "Locating candidates…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	title := titleStyle.Render("munge: migration candidates")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Candidates: %s   Files: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.total)),
		accentStyle.Render(fmt.Sprintf("%d", m.totalFiles)),
	))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderTable(),
		footer,
	)
}

func (m estimateModel) renderTable() string {
	// title, summary, footer, border and headers
	listHeight := m.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	// margin, border and padding on both sides
	listWidth := m.width - 6

	m.fileList.SetHeight(listHeight)
	m.fileList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%6s %6s %6s  %s", "Desc", "Enable", "Total", "File Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.fileList.View(),
		),
	)
}
