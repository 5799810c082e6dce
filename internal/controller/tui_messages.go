package controller

import (
	"time"

	m "github.com/mouse-blink/munge/internal/model"
)

// Message types.
type tickMsg time.Time

type estimationMsg struct {
	total int
	files []fileItem
}

type concurrencyMsg struct {
	parallel int
	files    int
	items    int
}

type progressMsg struct {
	state m.ProgressState
}

type summaryMsg struct {
	results []m.FileResult
}

type finishMsg struct{}

// List item types.
type fileItem struct {
	path         string
	descriptions int
	enables      int
}

func (f fileItem) count() int {
	return f.descriptions + f.enables
}

func (f fileItem) FilterValue() string {
	return f.path
}

func newEstimationMsg(sources []m.Source) estimationMsg {
	msg := estimationMsg{files: make([]fileItem, 0, len(sources))}

	for _, src := range sources {
		descriptions, enables := countKinds(src.Candidates)
		msg.total += len(src.Candidates)
		msg.files = append(msg.files, fileItem{
			path:         string(src.Path),
			descriptions: descriptions,
			enables:      enables,
		})
	}

	return msg
}
