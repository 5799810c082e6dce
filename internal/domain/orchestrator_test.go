package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/munge/internal/adapter"
	adaptermocks "github.com/mouse-blink/munge/internal/adapter/mocks"
	m "github.com/mouse-blink/munge/internal/model"
)

const optionsModule = `{ lib, ... }:
{
  options.a = lib.mkOption {
    description = "Port <literal>foo</literal> listens.";
  };
  options.b = lib.mkOption {
    description = "Very <emphasis>loud</emphasis>.";
  };
  options.c = lib.mkOption {
    description = ''Really <emphasis role="strong">bold</emphasis>.'';
  };
}
`

var (
	markdownCode = regexp.MustCompile("`([^`]*)`")
	markedArg    = regexp.MustCompile(`\(lib\.mdDoc ("[^"]*")\)`)
)

// renderDocs stands in for the documentation build: it understands inline
// code, fails on strong emphasis and leaves everything else alone.
func renderDocs(content string) (string, error) {
	if strings.Contains(content, "**") {
		return "", &m.BuildError{Diagnostic: "error: unexpected strong emphasis", Err: errors.New("exit status 1")}
	}

	out := markedArg.ReplaceAllString(content, "${1}")
	out = strings.ReplaceAll(out, "lib.mdDoc ", "")

	return markdownCode.ReplaceAllString(out, "<literal>${1}</literal>"), nil
}

func workspaceBuild(rel string) func(context.Context, adapter.BuildRequest) (string, error) {
	return func(_ context.Context, req adapter.BuildRequest) (string, error) {
		content, err := os.ReadFile(filepath.Join(string(req.Dir), rel))
		if err != nil {
			return "", err
		}

		return renderDocs(string(content))
	}
}

type recordingStore struct {
	mu      sync.Mutex
	records []m.FailureRecord
}

func (s *recordingStore) Save(record m.FailureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)

	return nil
}

func (s *recordingStore) Load() ([]m.FailureRecord, error) {
	return s.records, nil
}

func (s *recordingStore) RegenerateIndex() error {
	return nil
}

func (s *recordingStore) Prune(_ []m.Path) error {
	return nil
}

type recordingProgress struct {
	entered []string
	updated []string
	changed int
}

func (p *recordingProgress) EnterItem(label string)  { p.entered = append(p.entered, label) }
func (p *recordingProgress) UpdateItem(label string) { p.updated = append(p.updated, label) }
func (p *recordingProgress) ChangedItem()            { p.changed++ }
func (p *recordingProgress) Close()                  {}

// setupTree writes files into a fresh root and points temp dirs at a
// directory the test can inspect.
func setupTree(t *testing.T, files map[string]string) (root, tmp string) {
	t.Helper()

	root = t.TempDir()
	tmp = t.TempDir()
	t.Setenv("TMPDIR", tmp)

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root, tmp
}

func locatedSource(t *testing.T, root, rel string) m.Source {
	t.Helper()

	path := filepath.Join(root, rel)
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	return m.Source{
		Path:       m.Path(path),
		Rel:        m.Path(rel),
		Content:    content,
		Candidates: NewLocator("mdDoc").Locate(parseNix(t, string(content))),
	}
}

func TestOrchestrator_MigrateFile(t *testing.T) {
	root, tmp := setupTree(t, map[string]string{"modules/mod.nix": optionsModule})
	src := locatedSource(t, root, "modules/mod.nix")
	require.Len(t, src.Candidates, 3)

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).RunAndReturn(workspaceBuild("modules/mod.nix")).Times(4)

	store := &recordingStore{}
	progress := &recordingProgress{}

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, store,
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root)})

	result, err := orch.MigrateFile(context.Background(), src, progress)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Committed)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.Changed())

	content := string(result.Content)
	assert.Contains(t, content, "description = lib.mdDoc \"Port `foo` listens.\";")
	assert.Contains(t, content, `description = "Very <emphasis>loud</emphasis>.";`)
	assert.Contains(t, content, `description = ''Really <emphasis role="strong">bold</emphasis>.'';`)

	t.Run("failure records", func(t *testing.T) {
		require.Len(t, store.records, 2)

		buildFailure := store.records[0]
		assert.Equal(t, 0, buildFailure.Index)
		assert.Equal(t, m.FailureBuild, buildFailure.Reason)
		assert.Contains(t, buildFailure.Error, "unexpected strong emphasis")
		assert.Equal(t, optionsModule, string(buildFailure.Before))
		assert.Contains(t, string(buildFailure.After), "**bold**")
		assert.Empty(t, buildFailure.AfterRaw)

		mismatch := store.records[1]
		assert.Equal(t, 1, mismatch.Index)
		assert.Equal(t, m.FailureMismatch, mismatch.Reason)
		assert.Equal(t, optionsModule, mismatch.BeforeRaw)
		assert.Contains(t, mismatch.AfterRaw, "Very *loud*.")
		assert.NotEqual(t, mismatch.BeforeNormalized, mismatch.AfterNormalized)
	})

	t.Run("progress", func(t *testing.T) {
		assert.Equal(t, []string{
			"check 1/3 in " + string(src.Path),
			"check 2/3 in " + string(src.Path),
			"check 3/3 in " + string(src.Path),
		}, progress.entered)
		assert.Equal(t, 1, progress.changed)
		assert.Len(t, progress.updated, 1)
	})

	t.Run("input and workspace untouched", func(t *testing.T) {
		onDisk, err := os.ReadFile(string(src.Path))
		require.NoError(t, err)
		assert.Equal(t, optionsModule, string(onDisk))

		entries, err := os.ReadDir(tmp)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestOrchestrator_CommitsAgainstOriginalBaseline(t *testing.T) {
	module := `{ lib, ... }: {
  a = lib.mkEnableOption "<literal>a</literal>";
  b = lib.mkEnableOption "<literal>b</literal>";
}
`
	root, _ := setupTree(t, map[string]string{"mod.nix": module})
	src := locatedSource(t, root, "mod.nix")
	require.Len(t, src.Candidates, 2)

	var outputs []string

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, req adapter.BuildRequest) (string, error) {
			out, err := workspaceBuild("mod.nix")(ctx, req)
			outputs = append(outputs, out)

			return out, err
		}).Times(3)

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, &recordingStore{},
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root)})

	result, err := orch.MigrateFile(context.Background(), src, &recordingProgress{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Committed)
	assert.Contains(t, string(result.Content), "a = lib.mkEnableOption (lib.mdDoc \"`a`\");")
	assert.Contains(t, string(result.Content), "b = lib.mkEnableOption (lib.mdDoc \"`b`\");")

	for _, out := range outputs {
		assert.Equal(t, Normalize(outputs[0]), Normalize(out))
	}
}

func TestOrchestrator_ImportModeHandsFileToBuild(t *testing.T) {
	root, _ := setupTree(t, map[string]string{"nixos/mod.nix": `{ a = mkEnableOption "x"; }`})
	src := locatedSource(t, root, "nixos/mod.nix")

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, req adapter.BuildRequest) (string, error) {
			assert.Equal(t, filepath.Join(string(req.Dir), "nixos", "mod.nix"), string(req.ImportFile))

			return workspaceBuild("nixos/mod.nix")(ctx, req)
		}).Times(2)

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, &recordingStore{},
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root), Import: true})

	result, err := orch.MigrateFile(context.Background(), src, &recordingProgress{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Committed)
}

func TestOrchestrator_BaselineFailure(t *testing.T) {
	root, tmp := setupTree(t, map[string]string{"mod.nix": optionsModule})
	src := locatedSource(t, root, "mod.nix")

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).
		Return("", &m.BuildError{Diagnostic: "error: infinite recursion"}).Once()

	store := adaptermocks.NewMockFailureStore(t)

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, store,
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root)})

	result, err := orch.MigrateFile(context.Background(), src, &recordingProgress{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline build of")

	var buildErr *m.BuildError
	assert.ErrorAs(t, err, &buildErr)
	assert.Zero(t, result.Committed)
	assert.Equal(t, optionsModule, string(result.Content))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrchestrator_FatalCandidateBuildError(t *testing.T) {
	root, _ := setupTree(t, map[string]string{"mod.nix": optionsModule})
	src := locatedSource(t, root, "mod.nix")

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).RunAndReturn(workspaceBuild("mod.nix")).Once()
	build.EXPECT().Build(mock.Anything, mock.Anything).Return("", errors.New("exec: nix-build not found")).Once()

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, adaptermocks.NewMockFailureStore(t),
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root)})

	_, err := orch.MigrateFile(context.Background(), src, &recordingProgress{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nix-build not found")
}

func TestOrchestrator_StopsOnCancel(t *testing.T) {
	root, _ := setupTree(t, map[string]string{"mod.nix": optionsModule})
	src := locatedSource(t, root, "mod.nix")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	build := adaptermocks.NewMockBuildAdapter(t)
	build.EXPECT().Build(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, req adapter.BuildRequest) (string, error) {
			cancel()

			return workspaceBuild("mod.nix")(ctx, req)
		}).Once()

	orch := NewOrchestrator(adapter.NewLocalSourceFSAdapter(false), build, adaptermocks.NewMockFailureStore(t),
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{Root: m.Path(root)})

	result, err := orch.MigrateFile(ctx, src, &recordingProgress{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Committed)
}

func TestOrchestrator_NoCandidates(t *testing.T) {
	build := adaptermocks.NewMockBuildAdapter(t)
	fs := adaptermocks.NewMockSourceFSAdapter(t)

	orch := NewOrchestrator(fs, build, adaptermocks.NewMockFailureStore(t),
		NewTransducer(DefaultMarker, nil), OrchestratorOptions{})

	src := m.Source{Path: "empty.nix", Content: []byte("{ }")}

	result, err := orch.MigrateFile(context.Background(), src, &recordingProgress{})
	require.NoError(t, err)
	assert.Equal(t, "{ }", string(result.Content))
	assert.False(t, result.Changed())
}
