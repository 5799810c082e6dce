package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/mouse-blink/munge/internal/adapter"
	"github.com/mouse-blink/munge/internal/logger"
	m "github.com/mouse-blink/munge/internal/model"
)

// FileProgress receives the progress events of one file. Close reconciles
// the items that were planned for the file but never entered.
type FileProgress interface {
	EnterItem(label string)
	UpdateItem(label string)
	ChangedItem()
	Close()
}

// Orchestrator verifies the candidates of one file against the documentation
// build and commits those that leave the normalized output unchanged.
type Orchestrator interface {
	MigrateFile(ctx context.Context, src m.Source, progress FileProgress) (m.FileResult, error)
}

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	// Root is the tree copied into every workspace.
	Root m.Path
	// Import hands the workspace copy of the file to the build expression.
	Import bool
}

type orchestrator struct {
	fsAdapter    adapter.SourceFSAdapter
	buildAdapter adapter.BuildAdapter
	store        adapter.FailureStore
	transducer   Transducer
	opts         OrchestratorOptions
}

// NewOrchestrator constructs an Orchestrator backed by the provided adapters.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	buildAdapter adapter.BuildAdapter,
	store adapter.FailureStore,
	transducer Transducer,
	opts OrchestratorOptions,
) Orchestrator {
	if opts.Root == "" {
		opts.Root = "."
	}

	return &orchestrator{
		fsAdapter:    fsAdapter,
		buildAdapter: buildAdapter,
		store:        store,
		transducer:   transducer,
		opts:         opts,
	}
}

// MigrateFile runs the baseline build, then tries each candidate in order on
// the current working content. Equivalence is always checked against the
// baseline of the unmodified file.
func (o *orchestrator) MigrateFile(ctx context.Context, src m.Source, progress FileProgress) (m.FileResult, error) {
	result := m.FileResult{Source: src, Content: src.Content}
	if len(src.Candidates) == 0 {
		return result, nil
	}

	log := logger.FromContext(ctx).With("file", src.Path)

	tmpDir, err := o.prepareWorkspace()
	if tmpDir != "" {
		defer o.cleanupTempDir(ctx, tmpDir)
	}

	if err != nil {
		return result, err
	}

	workFile := o.fsAdapter.JoinPath(string(tmpDir), string(src.Rel))
	req := adapter.BuildRequest{Dir: tmpDir}

	if o.opts.Import {
		req.ImportFile = workFile
	}

	progress.UpdateItem(fmt.Sprintf("old in %s", src.Path))

	if err := o.writeWorkFile(workFile, src.Content); err != nil {
		return result, err
	}

	baseline, err := o.buildAdapter.Build(ctx, req)
	if err != nil {
		return result, fmt.Errorf("baseline build of %s failed: %w", src.Path, err)
	}

	baselineNormalized := Normalize(baseline)
	total := len(src.Candidates)

	for i, candidate := range src.Candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rewritten := o.transducer.Convert(result.Content, candidate)
		progress.EnterItem(fmt.Sprintf("check %d/%d in %s", i+1, total, src.Path))

		if err := o.writeWorkFile(workFile, rewritten); err != nil {
			return result, err
		}

		record := m.FailureRecord{
			File:      src.Path,
			Index:     i,
			Candidate: candidate,
			Before:    src.Content,
			After:     rewritten,
		}

		out, err := o.buildAdapter.Build(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			var buildErr *m.BuildError
			if !errors.As(err, &buildErr) {
				return result, fmt.Errorf("build of candidate %d in %s: %w", i, src.Path, err)
			}

			log.Debug("candidate build failed", "index", i)

			result.Failed++
			record.Reason = m.FailureBuild
			record.Error = err.Error()

			if err := o.saveFailure(record); err != nil {
				return result, err
			}

			continue
		}

		outNormalized := Normalize(out)
		if outNormalized == baselineNormalized {
			log.Debug("candidate committed", "index", i)

			progress.ChangedItem()

			result.Content = rewritten
			result.Committed++

			continue
		}

		log.Debug("candidate output differs", "index", i)

		result.Rejected++
		record.Reason = m.FailureMismatch
		record.BeforeRaw = baseline
		record.BeforeNormalized = baselineNormalized
		record.AfterRaw = out
		record.AfterNormalized = outNormalized

		if err := o.saveFailure(record); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (o *orchestrator) prepareWorkspace() (m.Path, error) {
	tmpDir, err := o.fsAdapter.CreateTempDir("munge-workspace-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	if err := o.fsAdapter.CopyDir(o.opts.Root, tmpDir); err != nil {
		return tmpDir, fmt.Errorf("failed to copy %s: %w", o.opts.Root, err)
	}

	return tmpDir, nil
}

func (o *orchestrator) writeWorkFile(path m.Path, content []byte) error {
	if err := o.fsAdapter.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}

	return nil
}

func (o *orchestrator) saveFailure(record m.FailureRecord) error {
	if err := o.store.Save(record); err != nil {
		return fmt.Errorf("failed to save failure record: %w", err)
	}

	return nil
}

// cleanupTempDir removes the workspace, logging errors if cleanup fails.
func (o *orchestrator) cleanupTempDir(ctx context.Context, tmpDir m.Path) {
	if err := o.fsAdapter.RemoveAll(tmpDir); err != nil {
		logger.FromContext(ctx).Warn("failed to remove workspace", "dir", tmpDir, "error", err)
	}
}
