package cmd

import (
	"github.com/spf13/cobra"

	"github.com/newobj/dexpack/internal/domain"
	m "github.com/newobj/dexpack/internal/model"
)

var runOutputFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [manifest]",
		Short: "Run the dex layout pass",
		Long: `Run the layout pass over a store manifest: classify mixed-mode
classes, repack every root store into size-bounded dex units, write the
repacked manifest and the layout report, and print the layout summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow, err := newWorkflow(cmd)
			if err != nil {
				return err
			}

			output := runOutputFlag
			if output == "" {
				output = args[0]
			}

			return workflow.Pack(domain.PackArgs{
				Manifest: m.Path(args[0]),
				Output:   m.Path(output),
				Reports:  m.Path(reportsOutputDirFlag),
			})
		},
	}
	cmd.Flags().StringVarP(&runOutputFlag, "output", "o", "", "path for the repacked manifest (defaults to the input path)")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
