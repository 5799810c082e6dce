package adapter

import (
	"testing"

	"github.com/mouse-blink/munge/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalNixFileAdapter_Parse(t *testing.T) {
	a := NewLocalNixFileAdapter()

	t.Run("parses valid source", func(t *testing.T) {
		tree, err := a.Parse("module.nix", []byte(`{ lib, ... }: { options.x = lib.mkEnableOption "x"; }`))
		require.NoError(t, err)
		require.NotNil(t, tree)
		assert.Equal(t, syntax.KindLambda, tree.Root.FirstChild().Kind)
	})

	t.Run("prefixes errors with filename", func(t *testing.T) {
		_, err := a.Parse("broken.nix", []byte("{ a = ; }"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.nix:1:")
		assert.True(t, syntax.IsParseError(err))
	})
}
