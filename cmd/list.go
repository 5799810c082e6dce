package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/munge/internal/domain"
)

const listLongDescription = `List the files matched by the given paths together with the number of
option descriptions and enable flags that are still waiting for migration.
Nothing is built and no file is modified.`

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List files and migration candidate counts",
		Long:  listLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Estimate(domain.EstimateArgs{Paths: parsePaths(args)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
