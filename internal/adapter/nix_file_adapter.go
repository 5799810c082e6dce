package adapter

import (
	"fmt"

	"github.com/mouse-blink/munge/internal/syntax"
)

// NixFileAdapter encapsulates Nix parsing so the domain layer can focus on
// locating rewrite candidates while delegating syntax details to an
// infrastructure component.
type NixFileAdapter interface {
	// Parse builds a syntax tree for the provided filename/source pair.
	Parse(filename string, src []byte) (*syntax.Tree, error)
}

// LocalNixFileAdapter provides a concrete NixFileAdapter backed by the syntax package.
type LocalNixFileAdapter struct{}

// NewLocalNixFileAdapter constructs a LocalNixFileAdapter.
func NewLocalNixFileAdapter() *LocalNixFileAdapter {
	return &LocalNixFileAdapter{}
}

// Parse builds a syntax tree, prefixing parse errors with the filename.
func (a *LocalNixFileAdapter) Parse(filename string, src []byte) (*syntax.Tree, error) {
	tree, err := syntax.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", filename, err)
	}

	return tree, nil
}
