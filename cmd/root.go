// Package cmd provides the root command and CLI setup for munge.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/munge/internal/adapter"
	"github.com/mouse-blink/munge/internal/config"
	"github.com/mouse-blink/munge/internal/controller"
	"github.com/mouse-blink/munge/internal/domain"
	"github.com/mouse-blink/munge/internal/logger"
	m "github.com/mouse-blink/munge/internal/model"
)

const rootLongDescription = `Munge migrates NixOS option documentation from DocBook to Markdown.

Every option description and mkEnableOption argument that is not yet wrapped
in the Markdown marker is rewritten, and the rewrite is kept only when the
rendered option docs stay equivalent to those of the unmodified tree.
Rejected candidates are recorded in the failures directory.

Supports Go-style path patterns:
  - ./...            recursively scan current directory
  - ./nixos/...      recursively scan the nixos directory
  - a.nix b.nix      migrate individual files`

// workflow is built from the loaded configuration unless a test installed one.
var workflow domain.Workflow

// cfg is the configuration resolved for the running command.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "munge [paths...]",
		Short:             "Migrate NixOS option docs from DocBook to Markdown",
		Long:              rootLongDescription,
		Args:              cobra.MinimumNArgs(1),
		PersistentPreRunE: setup,
		RunE: func(c *cobra.Command, args []string) error {
			return workflow.Migrate(c.Context(), domain.MigrateArgs{
				EstimateArgs: domain.EstimateArgs{Paths: parsePaths(args)},
				Parallel:     cfg.Parallel,
			})
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default .munge.yaml in the working directory)")
	flags.IntP("parallel", "p", domain.DefaultParallel, "number of files migrated concurrently")
	flags.Bool("import", false, "pass the migrated file to the build expression instead of using the default expression")
	flags.String("root", ".", "tree copied into every build workspace")
	flags.String("failures-dir", "munge-failures", "directory receiving rejected candidates")
	flags.String("marker", "lib.mdDoc", "function marking a string as Markdown")
	flags.Bool("reflink", true, "copy workspaces with copy-on-write clones when available")
	flags.Bool("plain", false, "print plain progress lines instead of the interactive view")
	flags.String("log-level", "warn", "log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "log as JSON")

	return cmd
}

// setup loads the configuration, installs the logger and, unless one is
// already set, wires the workflow.
func setup(c *cobra.Command, _ []string) error {
	configFile, err := c.Flags().GetString("config")
	if err != nil {
		return err
	}

	loaded, err := config.Load(c.Flags(), configFile)
	if err != nil {
		return err
	}

	cfg = loaded

	logger.Init(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     c.ErrOrStderr(),
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c.SetContext(logger.ContextWithLogger(ctx, logger.GetDefault()))

	if workflow != nil {
		return nil
	}

	wf, err := newWorkflow(c, cfg)
	if err != nil {
		return err
	}

	workflow = wf

	return nil
}

// newWorkflow wires the local adapters, the orchestrator and the UI.
func newWorkflow(c *cobra.Command, cfg *config.Config) (domain.Workflow, error) {
	fsAdapter := adapter.NewLocalSourceFSAdapter(cfg.Reflink, m.Path(cfg.FailuresDir))

	buildAdapter, err := adapter.NewLocalBuildAdapter(adapter.BuildOptions{
		Command:          cfg.Build.Command,
		Args:             cfg.Build.Args,
		Expression:       cfg.Build.Expression,
		ImportExpression: cfg.Build.ImportExpression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure build: %w", err)
	}

	store := adapter.NewFailureStore(afero.NewOsFs(), m.Path(cfg.FailuresDir))
	root := m.Path(cfg.Root)

	orch := domain.NewOrchestrator(
		fsAdapter,
		buildAdapter,
		store,
		domain.NewTransducer(cfg.Marker, nil),
		domain.OrchestratorOptions{Root: root, Import: cfg.Import},
	)

	return domain.NewWorkflow(
		fsAdapter,
		adapter.NewLocalNixFileAdapter(),
		store,
		newUI(c, cfg.Plain),
		orch,
		domain.NewLocator(cfg.MarkerName()),
		domain.WorkflowOptions{Root: root},
	), nil
}

func newUI(c *cobra.Command, plain bool) controller.UI {
	tty := controller.IsTTY(c.OutOrStdout())
	if plain {
		return controller.NewPlainUI(c, tty)
	}

	return controller.NewUI(c, tty)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the running migration.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
