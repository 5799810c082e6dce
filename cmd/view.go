package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/munge/internal/domain"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View recorded migration failures",
		Long:  "View the rejected candidates recorded in the failures directory by previous runs.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(domain.ViewArgs{})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
