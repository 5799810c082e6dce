package controller

import (
	"sync"

	m "github.com/mouse-blink/munge/internal/model"
)

// Progress is the process-wide migration counter set shared by all workers.
// Every mutation takes the lock, updates the state and renders it before
// releasing the lock.
type Progress struct {
	mu    sync.Mutex
	state m.ProgressState
	ui    UI
}

// NewProgress creates a Progress for the given totals rendering to ui.
func NewProgress(ui UI, totalFiles, totalItems int) *Progress {
	return &Progress{
		ui: ui,
		state: m.ProgressState{
			FilesTotal: totalFiles,
			ItemsTotal: totalItems,
		},
	}
}

// State returns a snapshot of the counters.
func (p *Progress) State() m.ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// EnterFile counts a file as started.
func (p *Progress) EnterFile(file string) {
	p.update(func(s *m.ProgressState) {
		s.FilesDone++
		s.LastFile = file
	})
}

// File returns the per-file handle for a file with planned candidates.
func (p *Progress) File(planned int) *FileProgress {
	return &FileProgress{progress: p, remaining: planned}
}

func (p *Progress) update(fn func(*m.ProgressState)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn(&p.state)

	if p.ui != nil {
		p.ui.DisplayProgress(p.state)
	}
}

// FileProgress tracks the candidates of one file. Close must be called when
// the file is done, typically deferred; it adds the items that were never
// entered so the totals reconcile even when the file stops early.
type FileProgress struct {
	progress  *Progress
	remaining int
}

// EnterItem counts one candidate as started.
func (f *FileProgress) EnterItem(label string) {
	f.remaining--

	f.progress.update(func(s *m.ProgressState) {
		s.ItemsDone++
		s.LastItem = label
	})
}

// UpdateItem relabels the current item without counting it.
func (f *FileProgress) UpdateItem(label string) {
	f.progress.update(func(s *m.ProgressState) {
		s.LastItem = label
	})
}

// ChangedItem counts one committed candidate.
func (f *FileProgress) ChangedItem() {
	f.progress.update(func(s *m.ProgressState) {
		s.ItemsChanged++
	})
}

// Close skips the remaining planned items. Calling it twice is harmless.
func (f *FileProgress) Close() {
	skipped := f.remaining
	f.remaining = 0

	if skipped <= 0 {
		return
	}

	f.progress.update(func(s *m.ProgressState) {
		s.ItemsDone += skipped
	})
}
