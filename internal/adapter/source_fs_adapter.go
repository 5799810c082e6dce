// Package adapter contains infrastructure adapters for the munge CLI.
package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/otiai10/copy"

	m "github.com/mouse-blink/munge/internal/model"
)

const nixFileExt = ".nix"

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when collecting input files and preparing build workspaces. It
// hides direct `os` access so the workflow logic can be tested without
// touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get expands the provided roots into Nix source files. Plain files are
	// returned as given; directories contribute their *.nix files, recursively
	// when the root ends in /... .
	Get(roots []m.Path) ([]m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// CreateTempDir creates a temporary directory for a build workspace.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// CopyDir snapshots a directory tree into dst.
	CopyDir(src, dst m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns target relative to base, resolving both to absolute paths first.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct {
	reflink bool
	exclude []string // absolute directories left out of CopyDir snapshots
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter. With reflink set,
// CopyDir first tries a copy-on-write `cp` and falls back to a plain copy.
// Directories in exclude never appear in a snapshot, even when they lie inside
// the copied tree.
func NewLocalSourceFSAdapter(reflink bool, exclude ...m.Path) *LocalSourceFSAdapter {
	a := &LocalSourceFSAdapter{reflink: reflink}

	for _, dir := range exclude {
		abs, err := filepath.Abs(string(dir))
		if err != nil {
			continue
		}

		a.exclude = append(a.exclude, abs)
	}

	return a
}

// Get collects Nix source files for the provided roots.
func (a *LocalSourceFSAdapter) Get(roots []m.Path) ([]m.Path, error) {
	if len(roots) == 0 {
		return []m.Path{}, nil
	}

	seen := make(map[string]struct{})

	var files []m.Path

	add := func(path string) {
		key := filepath.Clean(path)
		if _, exists := seen[key]; exists {
			return
		}

		seen[key] = struct{}{}
		files = append(files, m.Path(path))
	}

	for _, root := range roots {
		rootPath, recursive := parseRootPath(string(root))

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(rootPath)
			continue
		}

		var found []string

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || filepath.Ext(path) != nixFileExt {
				return nil
			}

			found = append(found, path)

			return nil
		})
		if err != nil {
			return nil, err
		}

		sort.Strings(found)

		for _, path := range found {
			add(path)
		}
	}

	return files, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr && (!recursive || info.Name() == ".git") {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CreateTempDir creates a temporary directory.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyDir snapshots src into dst. A reflink copy shares data blocks with the
// source on filesystems that support it; otherwise every file is copied,
// skipping .git and keeping symlinks as links. Excluded directories are left
// out either way.
func (a *LocalSourceFSAdapter) CopyDir(src, dst m.Path) error {
	if a.reflink && runtime.GOOS == "linux" {
		if err := reflinkCopy(string(src), string(dst)); err == nil {
			return a.dropExcluded(string(src), string(dst))
		}
	}

	return copy.Copy(string(src), string(dst), copy.Options{
		Skip: func(info os.FileInfo, path, _ string) (bool, error) {
			if !info.IsDir() {
				return false, nil
			}

			return info.Name() == ".git" || a.excluded(path), nil
		},
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		PreserveTimes: true,
	})
}

func (a *LocalSourceFSAdapter) excluded(path string) bool {
	if len(a.exclude) == 0 {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	return slices.Contains(a.exclude, abs)
}

// dropExcluded removes from dst the excluded directories a whole-tree copy of
// src brought along.
func (a *LocalSourceFSAdapter) dropExcluded(src, dst string) error {
	if len(a.exclude) == 0 {
		return nil
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", src, err)
	}

	for _, dir := range a.exclude {
		rel, err := filepath.Rel(absSrc, dir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(dst, rel)); err != nil {
			return fmt.Errorf("failed to drop %s from snapshot: %w", rel, err)
		}
	}

	return nil
}

func reflinkCopy(src, dst string) error {
	var stderr bytes.Buffer

	// #nosec G204 - arguments are internal workspace paths
	cmd := exec.CommandContext(context.Background(), "cp", "-a", "--reflink=auto", "-T", src, dst)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cp failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	return nil
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	absBase, err := filepath.Abs(string(base))
	if err != nil {
		return "", err
	}

	absTarget, err := filepath.Abs(string(target))
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if rootStr == "..." {
		return ".", true
	}

	if strings.HasSuffix(rootStr, "/...") {
		path = strings.TrimSuffix(rootStr, "/...")
		if path == "" {
			path = "/"
		}

		return path, true
	}

	return rootStr, false
}
