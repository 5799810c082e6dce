package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/munge/internal/adapter"
	adaptermocks "github.com/mouse-blink/munge/internal/adapter/mocks"
	controllermocks "github.com/mouse-blink/munge/internal/controller/mocks"
	"github.com/mouse-blink/munge/internal/domain"
	domainmocks "github.com/mouse-blink/munge/internal/domain/mocks"
	m "github.com/mouse-blink/munge/internal/model"
)

const (
	moduleWithCandidate = `{ lib, ... }: { enable = lib.mkEnableOption "foo"; }`
	moduleWithout       = `{ lib, ... }: { enable = lib.mkEnableOption (lib.mdDoc "foo"); }`
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	}

	return root
}

type workflowFixture struct {
	root  string
	ui    *controllermocks.MockUI
	store *adaptermocks.MockFailureStore
	orch  *domainmocks.MockOrchestrator
	wf    domain.Workflow
}

func newWorkflowFixture(t *testing.T, files map[string]string) *workflowFixture {
	t.Helper()

	f := &workflowFixture{
		root:  writeTree(t, files),
		ui:    controllermocks.NewMockUI(t),
		store: adaptermocks.NewMockFailureStore(t),
		orch:  domainmocks.NewMockOrchestrator(t),
	}

	f.wf = domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(false),
		adapter.NewLocalNixFileAdapter(),
		f.store,
		f.ui,
		f.orch,
		domain.NewLocator("mdDoc"),
		domain.WorkflowOptions{Root: m.Path(f.root)},
	)

	return f
}

func (f *workflowFixture) path(name string) m.Path {
	return m.Path(filepath.Join(f.root, name))
}

func (f *workflowFixture) expectMigrateUI(parallel, files, items int) {
	f.store.EXPECT().Prune(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().Start(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayConcurrencyInfo(parallel, files, items).Return().Once()
	f.ui.EXPECT().DisplayProgress(mock.Anything).Return().Maybe()
	f.ui.EXPECT().DisplaySummary(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().Close().Return().Once()
}

// commitAll pretends every candidate verified and replaces the file content.
func commitAll(content string) func(context.Context, m.Source, domain.FileProgress) (m.FileResult, error) {
	return func(_ context.Context, src m.Source, progress domain.FileProgress) (m.FileResult, error) {
		result := m.FileResult{Source: src, Content: src.Content}

		for range src.Candidates {
			progress.EnterItem("check")
			progress.ChangedItem()

			result.Content = []byte(content)
			result.Committed++
		}

		return result, nil
	}
}

func TestWorkflow_Migrate_WritesCommittedFiles(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{
		"modules/a.nix": moduleWithCandidate,
		"modules/b.nix": moduleWithout,
	})

	f.expectMigrateUI(4, 2, 1)
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(commitAll("converted")).Times(2)
	f.store.EXPECT().RegenerateIndex().Return(nil).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root + "/...")}},
		Parallel:     4,
	})
	require.NoError(t, err)

	a, err := os.ReadFile(string(f.path("modules/a.nix")))
	require.NoError(t, err)
	assert.Equal(t, "converted", string(a))

	info, err := os.Stat(string(f.path("modules/a.nix")))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	b, err := os.ReadFile(string(f.path("modules/b.nix")))
	require.NoError(t, err)
	assert.Equal(t, moduleWithout, string(b))
}

func TestWorkflow_Migrate_SourcesCarryRelativePaths(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{"nixos/mod.nix": moduleWithCandidate})

	f.expectMigrateUI(domain.DefaultParallel, 1, 1)
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, src m.Source, _ domain.FileProgress) {
			assert.Equal(t, m.Path(filepath.Join("nixos", "mod.nix")), src.Rel)
			assert.Equal(t, moduleWithCandidate, string(src.Content))
			if assert.Len(t, src.Candidates, 1) {
				assert.True(t, src.Candidates[0].RequiresParens)
			}
		}).
		Return(m.FileResult{}, nil).Once()
	f.store.EXPECT().RegenerateIndex().Return(nil).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{f.path("nixos/mod.nix")}},
	})
	require.NoError(t, err)
}

func TestWorkflow_Migrate_FatalFileDoesNotStopOthers(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{
		"a.nix": moduleWithCandidate,
		"b.nix": moduleWithCandidate,
	})

	f.expectMigrateUI(1, 2, 2)
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.MatchedBy(func(src m.Source) bool {
		return filepath.Base(string(src.Path)) == "a.nix"
	}), mock.Anything).Return(m.FileResult{}, errors.New("baseline build failed")).Once()
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.MatchedBy(func(src m.Source) bool {
		return filepath.Base(string(src.Path)) == "b.nix"
	}), mock.Anything).RunAndReturn(commitAll("converted")).Once()
	f.store.EXPECT().RegenerateIndex().Return(nil).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
		Parallel:     1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.nix")
	assert.Contains(t, err.Error(), "baseline build failed")

	a, err := os.ReadFile(string(f.path("a.nix")))
	require.NoError(t, err)
	assert.Equal(t, moduleWithCandidate, string(a))

	b, err := os.ReadFile(string(f.path("b.nix")))
	require.NoError(t, err)
	assert.Equal(t, "converted", string(b))
}

func TestWorkflow_Migrate_Cancelled(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{"a.nix": moduleWithCandidate})

	f.expectMigrateUI(2, 1, 1)
	f.store.EXPECT().RegenerateIndex().Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.wf.Migrate(ctx, domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
		Parallel:     2,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkflow_Migrate_ParseErrorAbortsBeforeBuilding(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{
		"good.nix": moduleWithCandidate,
		"bad.nix":  `{ a = ; }`,
	})

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
	assert.Contains(t, err.Error(), "bad.nix")
}

func TestWorkflow_Migrate_FileOutsideRoot(t *testing.T) {
	f := newWorkflowFixture(t, nil)
	outside := writeTree(t, map[string]string{"x.nix": moduleWithCandidate})

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(filepath.Join(outside, "x.nix"))}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside root")
}

func TestWorkflow_Migrate_IndexError(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{"a.nix": moduleWithout})

	f.expectMigrateUI(1, 1, 0)
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(commitAll("unused")).Once()
	f.store.EXPECT().RegenerateIndex().Return(errors.New("disk full")).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
		Parallel:     1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWorkflow_Estimate(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{
		"a.nix": moduleWithCandidate,
		"b.nix": moduleWithout,
	})

	f.ui.EXPECT().Start(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayEstimation(mock.MatchedBy(func(sources []m.Source) bool {
		return len(sources) == 2 && len(sources[0].Candidates) == 1 && len(sources[1].Candidates) == 0
	}), nil).Return(nil).Once()
	f.ui.EXPECT().Wait().Return().Once()

	err := f.wf.Estimate(domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}})
	require.NoError(t, err)
}

func TestWorkflow_Estimate_Error(t *testing.T) {
	f := newWorkflowFixture(t, nil)

	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything).
		RunAndReturn(func(_ []m.Source, err error) error { return err }).Once()

	err := f.wf.Estimate(domain.EstimateArgs{Paths: []m.Path{f.path("missing.nix")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get sources")
}

func TestWorkflow_View(t *testing.T) {
	f := newWorkflowFixture(t, nil)

	records := []m.FailureRecord{{File: "a.nix", Index: 0, Reason: m.FailureMismatch}}

	f.store.EXPECT().Load().Return(records, nil).Once()
	f.ui.EXPECT().Start(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayFailures(records, nil).Return(nil).Once()
	f.ui.EXPECT().Close().Return().Once()

	require.NoError(t, f.wf.View(domain.ViewArgs{}))
}

func TestWorkflow_Estimate_ParseError(t *testing.T) {
	root := writeTree(t, map[string]string{"a.nix": moduleWithCandidate})
	nix := adaptermocks.NewMockNixFileAdapter(t)
	ui := controllermocks.NewMockUI(t)

	nix.EXPECT().Parse(filepath.Join(root, "a.nix"), []byte(moduleWithCandidate)).
		Return(nil, errors.New("unexpected token")).Once()
	ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything).
		RunAndReturn(func(sources []m.Source, err error) error {
			assert.Nil(t, sources)
			return err
		}).Once()

	wf := domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(false),
		nix,
		adaptermocks.NewMockFailureStore(t),
		ui,
		domainmocks.NewMockOrchestrator(t),
		domain.NewLocator("mdDoc"),
		domain.WorkflowOptions{Root: m.Path(root)},
	)

	err := wf.Estimate(domain.EstimateArgs{Paths: []m.Path{m.Path(filepath.Join(root, "a.nix"))}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse: unexpected token")
}

func TestWorkflow_Migrate_PrunesRecordsOfMigratedFiles(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{
		"a.nix": moduleWithCandidate,
		"b.nix": moduleWithout,
	})

	f.store.EXPECT().Prune([]m.Path{f.path("a.nix"), f.path("b.nix")}).Return(nil).Once()
	f.ui.EXPECT().Start(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayConcurrencyInfo(1, 2, 1).Return().Once()
	f.ui.EXPECT().DisplayProgress(mock.Anything).Return().Maybe()
	f.ui.EXPECT().DisplaySummary(mock.Anything).Return(nil).Once()
	f.ui.EXPECT().Close().Return().Once()
	f.orch.EXPECT().MigrateFile(mock.Anything, mock.Anything, mock.Anything).
		Return(m.FileResult{}, nil).Times(2)
	f.store.EXPECT().RegenerateIndex().Return(nil).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
		Parallel:     1,
	})
	require.NoError(t, err)
}

func TestWorkflow_Migrate_PruneError(t *testing.T) {
	f := newWorkflowFixture(t, map[string]string{"a.nix": moduleWithCandidate})

	f.store.EXPECT().Prune(mock.Anything).Return(errors.New("permission denied")).Once()

	err := f.wf.Migrate(context.Background(), domain.MigrateArgs{
		EstimateArgs: domain.EstimateArgs{Paths: []m.Path{m.Path(f.root)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prune failure records: permission denied")
}
