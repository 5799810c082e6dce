package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/munge/internal/domain"
	domainmocks "github.com/mouse-blink/munge/internal/domain/mocks"
	m "github.com/mouse-blink/munge/internal/model"
)

func TestListCmd_Estimate(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	installWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Estimate(domain.EstimateArgs{Paths: []m.Path{"./..."}}).Return(nil).Once()

	cmd := newTestRootCmd(t, &bytes.Buffer{})
	cmd.SetArgs([]string{"list", "./..."})

	require.NoError(t, cmd.Execute())
}

func TestListCmd_WiresLocalWorkflow(t *testing.T) {
	installWorkflow(t, nil)

	tree := t.TempDir()
	module := `{ lib, ... }: { enable = lib.mkEnableOption "foo"; }`
	require.NoError(t, os.WriteFile(filepath.Join(tree, "mod.nix"), []byte(module), 0o600))

	var out bytes.Buffer

	cmd := newTestRootCmd(t, &out)
	cmd.SetArgs([]string{"list", "--root", tree, "--log-level", "disabled", filepath.Join(tree, "mod.nix")})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "mod.nix")
	assert.Contains(t, out.String(), "TOTAL FILES 1")
}

func TestNewListCmd(t *testing.T) {
	cmd := newListCmd()

	assert.Equal(t, "list [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, listLongDescription, cmd.Long)
}
