package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/munge/internal/adapter"
	"github.com/mouse-blink/munge/internal/controller"
	"github.com/mouse-blink/munge/internal/logger"
	m "github.com/mouse-blink/munge/internal/model"
)

// DefaultParallel is the worker count used when none is configured.
const DefaultParallel = 16

// EstimateArgs selects the files to inspect.
type EstimateArgs struct {
	Paths []m.Path
}

// MigrateArgs configures a migration run.
type MigrateArgs struct {
	EstimateArgs
	Parallel int
}

// ViewArgs configures the failure listing.
type ViewArgs struct{}

// Workflow wires locating, verification and reporting together.
type Workflow interface {
	// Estimate lists the candidates found in every file.
	Estimate(args EstimateArgs) error
	// Migrate verifies every candidate and overwrites the inputs with the
	// committed rewrites once all files are done.
	Migrate(ctx context.Context, args MigrateArgs) error
	// View lists the persisted failure records.
	View(args ViewArgs) error
}

// WorkflowOptions configures a Workflow.
type WorkflowOptions struct {
	// Root is the tree every input file must live in.
	Root m.Path
}

type workflow struct {
	fsAdapter  adapter.SourceFSAdapter
	nixAdapter adapter.NixFileAdapter
	store      adapter.FailureStore
	ui         controller.UI
	orch       Orchestrator
	locator    Locator
	opts       WorkflowOptions
}

// NewWorkflow creates a new Workflow instance with the provided collaborators.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	nixAdapter adapter.NixFileAdapter,
	store adapter.FailureStore,
	ui controller.UI,
	orch Orchestrator,
	locator Locator,
	opts WorkflowOptions,
) Workflow {
	if opts.Root == "" {
		opts.Root = "."
	}

	return &workflow{
		fsAdapter:  fsAdapter,
		nixAdapter: nixAdapter,
		store:      store,
		ui:         ui,
		orch:       orch,
		locator:    locator,
		opts:       opts,
	}
}

func (w *workflow) Estimate(args EstimateArgs) error {
	sources, err := w.loadSources(args.Paths)
	if err != nil {
		return w.ui.DisplayEstimation(nil, err)
	}

	if err := w.ui.Start(controller.WithEstimateMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}

	if err := w.ui.DisplayEstimation(sources, nil); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

func (w *workflow) Migrate(ctx context.Context, args MigrateArgs) error {
	sources, err := w.loadSources(args.Paths)
	if err != nil {
		return err
	}

	parallel := args.Parallel
	if parallel <= 0 {
		parallel = DefaultParallel
	}

	items := 0
	files := make([]m.Path, 0, len(sources))

	for _, src := range sources {
		items += len(src.Candidates)
		files = append(files, src.Path)
	}

	if err := w.store.Prune(files); err != nil {
		return fmt.Errorf("failed to prune failure records: %w", err)
	}

	if err := w.ui.Start(controller.WithMigrateMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}

	w.ui.DisplayConcurrencyInfo(parallel, len(sources), items)

	progress := controller.NewProgress(w.ui, len(sources), items)
	results := w.runFiles(ctx, sources, parallel, progress)

	var firstErr error

	for _, r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}

	fileResults := make([]m.FileResult, 0, len(results))
	for _, r := range results {
		fileResults = append(fileResults, r.FileResult)
	}

	writeErr := w.writeResults(fileResults)
	indexErr := w.store.RegenerateIndex()

	if err := w.ui.DisplaySummary(fileResults); err != nil {
		logger.FromContext(ctx).Warn("failed to display summary", "error", err)
	}

	w.ui.Close()

	switch {
	case firstErr != nil:
		return firstErr
	case writeErr != nil:
		return writeErr
	case indexErr != nil:
		return fmt.Errorf("failed to regenerate failure index: %w", indexErr)
	}

	return nil
}

func (w *workflow) View(_ ViewArgs) error {
	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}

	defer w.ui.Close()

	records, err := w.store.Load()

	return w.ui.DisplayFailures(records, err)
}

type fileOutcome struct {
	m.FileResult
	err error
}

// runFiles migrates every source on a bounded pool. A fatal error in one file
// does not stop the others.
func (w *workflow) runFiles(ctx context.Context, sources []m.Source, parallel int, progress *controller.Progress) []fileOutcome {
	log := logger.FromContext(ctx)
	outcomes := make([]fileOutcome, len(sources))

	var g errgroup.Group

	g.SetLimit(parallel)

	for i, src := range sources {
		outcomes[i].FileResult = m.FileResult{Source: src, Content: src.Content}

		g.Go(func() error {
			progress.EnterFile(string(src.Path))

			part := progress.File(len(src.Candidates))
			defer part.Close()

			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return nil
			}

			result, err := w.orch.MigrateFile(ctx, src, part)
			outcomes[i].FileResult = result

			if err != nil {
				log.Error("file migration failed", "file", src.Path, "error", err)
				outcomes[i].err = fmt.Errorf("%s: %w", src.Path, err)
			}

			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

// writeResults overwrites every input that has committed rewrites, keeping
// its permissions.
func (w *workflow) writeResults(results []m.FileResult) error {
	for _, r := range results {
		if !r.Changed() {
			continue
		}

		info, err := w.fsAdapter.FileInfo(r.Source.Path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", r.Source.Path, err)
		}

		if err := w.fsAdapter.WriteFile(r.Source.Path, r.Content, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.Source.Path, err)
		}
	}

	return nil
}

// loadSources reads, parses and locates candidates in every input. Any parse
// error aborts before a single build runs.
func (w *workflow) loadSources(paths []m.Path) ([]m.Source, error) {
	files, err := w.fsAdapter.Get(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}

	sources := make([]m.Source, 0, len(files))

	for _, path := range files {
		src, err := w.loadSource(path)
		if err != nil {
			return nil, err
		}

		sources = append(sources, src)
	}

	return sources, nil
}

func (w *workflow) loadSource(path m.Path) (m.Source, error) {
	rel, err := w.fsAdapter.RelPath(w.opts.Root, path)
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if isOutside(string(rel)) {
		return m.Source{}, fmt.Errorf("%s is outside root %s", path, w.opts.Root)
	}

	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := w.nixAdapter.Parse(string(path), content)
	if err != nil {
		return m.Source{}, fmt.Errorf("failed to parse: %w", err)
	}

	return m.Source{
		Path:       path,
		Rel:        rel,
		Content:    content,
		Candidates: w.locator.Locate(tree),
	}, nil
}

func isOutside(rel string) bool {
	return filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
