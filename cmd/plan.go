package cmd

import (
	"github.com/spf13/cobra"

	"github.com/newobj/dexpack/internal/domain"
	m "github.com/newobj/dexpack/internal/model"
)

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [manifest]",
		Short: "Estimate the dex layout without writing anything",
		Long: `Run classification and packing as a dry run and print the
per-segment unit estimate. Nothing is written to disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			return workflow.Plan(domain.PlanArgs{Manifest: m.Path(args[0])})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(planCmd)
}
