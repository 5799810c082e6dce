package adapter

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/munge/internal/model"
)

const (
	recordFileName = "record.yaml"
	indexFileName  = "_index.yaml"
)

// FailureStore persists artifacts for candidates that could not be verified.
type FailureStore interface {
	// Save writes one failure record. Records are written once and never updated.
	Save(record m.FailureRecord) error
	// Load returns the metadata of every persisted record, sorted by file then index.
	Load() ([]m.FailureRecord, error)
	// RegenerateIndex rewrites the _index.yaml summary from the persisted records.
	RegenerateIndex() error
	// Prune removes every persisted record of the given files.
	Prune(files []m.Path) error
}

// LocalFailureStore lays out one directory per failure under dir.
type LocalFailureStore struct {
	fs  afero.Fs
	dir string
}

// NewFailureStore constructs a LocalFailureStore on fs rooted at dir.
func NewFailureStore(fs afero.Fs, dir m.Path) *LocalFailureStore {
	return &LocalFailureStore{fs: fs, dir: string(dir)}
}

type recordYAML struct {
	File   string `yaml:"file"`
	Index  int    `yaml:"index"`
	Kind   string `yaml:"kind"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
	Reason string `yaml:"reason"`
	Error  string `yaml:"error,omitempty"`
}

type indexYAML struct {
	TotalFailures int            `yaml:"total_failures"`
	Mismatches    int            `yaml:"mismatches"`
	BuildErrors   int            `yaml:"build_errors"`
	Files         map[string]int `yaml:"files"`
}

// FailureDirName names the directory for candidate index of file: "./" becomes
// "__" and remaining slashes become "_".
func FailureDirName(file m.Path, index int) string {
	sanitized := strings.ReplaceAll(string(file), "./", "__")
	sanitized = strings.ReplaceAll(sanitized, "/", "_")

	return fmt.Sprintf("%s.%d", sanitized, index)
}

// Save writes before.nix and after.nix, then either the four build outputs
// (mismatch) or after.error (build failure), then record.yaml. Whatever an
// earlier run left under the same name is removed first.
func (s *LocalFailureStore) Save(record m.FailureRecord) error {
	dir := path.Join(s.dir, FailureDirName(record.File, record.Index))
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear failure dir %s: %w", dir, err)
	}

	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create failure dir %s: %w", dir, err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"before.nix", record.Before},
		{"after.nix", record.After},
	}

	switch record.Reason {
	case m.FailureBuild:
		files = append(files, struct {
			name    string
			content []byte
		}{"after.error", []byte(record.Error)})
	default:
		files = append(files, []struct {
			name    string
			content []byte
		}{
			{"before.raw.xml", []byte(record.BeforeRaw)},
			{"before.xml", []byte(record.BeforeNormalized)},
			{"after.raw.xml", []byte(record.AfterRaw)},
			{"after.xml", []byte(record.AfterNormalized)},
		}...)
	}

	for _, f := range files {
		if err := afero.WriteFile(s.fs, path.Join(dir, f.name), f.content, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
	}

	meta := recordYAML{
		File:   string(record.File),
		Index:  record.Index,
		Kind:   string(record.Candidate.Kind()),
		Start:  record.Candidate.Span.Start,
		End:    record.Candidate.Span.End,
		Reason: string(record.Reason),
		Error:  record.Error,
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode failure record: %w", err)
	}

	if err := afero.WriteFile(s.fs, path.Join(dir, recordFileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", recordFileName, err)
	}

	return nil
}

// Load reads record.yaml from every failure directory. A missing store
// directory yields no records.
func (s *LocalFailureStore) Load() ([]m.FailureRecord, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []m.FailureRecord{}, nil
		}

		return nil, fmt.Errorf("failed to read failure dir %s: %w", s.dir, err)
	}

	records := make([]m.FailureRecord, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := afero.ReadFile(s.fs, path.Join(s.dir, entry.Name(), recordFileName))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return nil, err
		}

		var meta recordYAML
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}

		records = append(records, m.FailureRecord{
			File:  m.Path(meta.File),
			Index: meta.Index,
			Candidate: m.Candidate{
				Span:           m.Span{Start: meta.Start, End: meta.End},
				RequiresParens: meta.Kind == string(m.CandidateEnable),
			},
			Reason: m.FailureReason(meta.Reason),
			Error:  meta.Error,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].File != records[j].File {
			return records[i].File < records[j].File
		}

		return records[i].Index < records[j].Index
	})

	return records, nil
}

// Prune deletes the record directories whose record.yaml names one of files.
// Directories without metadata are left alone.
func (s *LocalFailureStore) Prune(files []m.Path) error {
	if len(files) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(files))
	for _, f := range files {
		wanted[string(f)] = struct{}{}
	}

	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read failure dir %s: %w", s.dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := path.Join(s.dir, entry.Name())

		data, err := afero.ReadFile(s.fs, path.Join(dir, recordFileName))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return err
		}

		var meta recordYAML
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}

		if _, ok := wanted[meta.File]; !ok {
			continue
		}

		if err := s.fs.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}

	return nil
}

// RegenerateIndex summarizes the persisted records into _index.yaml.
func (s *LocalFailureStore) RegenerateIndex() error {
	records, err := s.Load()
	if err != nil {
		return err
	}

	idx := indexYAML{TotalFailures: len(records), Files: make(map[string]int)}

	for _, r := range records {
		idx.Files[string(r.File)]++

		if r.Reason == m.FailureBuild {
			idx.BuildErrors++
		} else {
			idx.Mismatches++
		}
	}

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return err
	}

	return afero.WriteFile(s.fs, path.Join(s.dir, indexFileName), data, 0o600)
}
