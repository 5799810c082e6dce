package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	m "github.com/mouse-blink/munge/internal/model"
)

// BuildRequest selects the workspace a build runs in.
type BuildRequest struct {
	// Dir is the workspace root the build expression is evaluated from.
	Dir m.Path
	// ImportFile, when set, is handed to the import expression as `file`.
	ImportFile m.Path
}

// BuildAdapter runs the external documentation build. Implementations must
// confine everything they touch to the request's workspace and their own
// temporary output location.
type BuildAdapter interface {
	// Build returns the text of the build product. A build that ran but failed
	// is reported as *model.BuildError carrying the diagnostic output.
	Build(ctx context.Context, req BuildRequest) (string, error)
}

// BuildOptions configures LocalBuildAdapter.
type BuildOptions struct {
	Command          string
	Args             string // extra arguments, shell-quoted
	Expression       string
	ImportExpression string
}

// LocalBuildAdapter invokes nix-build (or a compatible command) as a child process.
type LocalBuildAdapter struct {
	command          string
	args             []string
	expression       string
	importExpression string
}

// NewLocalBuildAdapter constructs a LocalBuildAdapter.
func NewLocalBuildAdapter(opts BuildOptions) (*LocalBuildAdapter, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, errors.New("build command is empty")
	}

	args, err := shlex.Split(opts.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to split build args %q: %w", opts.Args, err)
	}

	return &LocalBuildAdapter{
		command:          opts.Command,
		args:             args,
		expression:       opts.Expression,
		importExpression: opts.ImportExpression,
	}, nil
}

// Build runs `<command> <args> -o <unique>/out [--arg file <path>] -E <expression>`
// in the request directory and returns the content of the produced output.
func (a *LocalBuildAdapter) Build(ctx context.Context, req BuildRequest) (string, error) {
	outDir, err := os.MkdirTemp("", "munge-build-*")
	if err != nil {
		return "", fmt.Errorf("failed to create build output dir: %w", err)
	}

	defer func() { _ = os.RemoveAll(outDir) }()

	out := filepath.Join(outDir, "out")

	// #nosec G204 - command and expression come from the user's own config
	cmd := exec.CommandContext(ctx, a.command, a.buildArgs(out, req)...)
	cmd.Dir = string(req.Dir)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run %s: %w", a.command, err)
		}

		return "", &m.BuildError{Diagnostic: stderr.String(), Err: err}
	}

	content, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("failed to read build output: %w", err)
	}

	return string(content), nil
}

func (a *LocalBuildAdapter) buildArgs(out string, req BuildRequest) []string {
	args := make([]string, 0, len(a.args)+6)
	args = append(args, a.args...)
	args = append(args, "-o", out)

	expression := a.expression
	if req.ImportFile != "" {
		args = append(args, "--arg", "file", nixPathLiteral(string(req.ImportFile)))
		expression = a.importExpression
	}

	return append(args, "-E", expression)
}

// nixPathLiteral turns an absolute filesystem path into a Nix path expression.
func nixPathLiteral(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return "./" + path
}
