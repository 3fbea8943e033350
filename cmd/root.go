// Package cmd provides the root command and CLI setup for dexpack.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/newobj/dexpack/internal/adapter"
	"github.com/newobj/dexpack/internal/config"
	"github.com/newobj/dexpack/internal/controller"
	"github.com/newobj/dexpack/internal/domain"
	"github.com/newobj/dexpack/internal/metrics"
)

var (
	configFlag           string
	reportsOutputDirFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dexpack",
		Short: "Secondary dex layout tool",
		Long: `Dexpack repartitions the classes of a dex store manifest into
size-bounded secondary dex files. Cold-start classes are placed first and
kept contiguous, every unit stays under the linear-alloc ceiling, and each
unit carries a canary marker class the running app can probe for.

The pass configuration (limits, canaries, mixed-mode sources) is read from
a dexpack.yaml config file or the file named by --config.`,
	}

	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to the dexpack config file")
	cmd.PersistentFlags().StringVarP(&reportsOutputDirFlag, "reports", "r", ".dexpack-reports", "layout reports directory")

	return cmd
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the viper instance for this invocation. An explicit
// --config file must exist; the implicit dexpack.yaml lookup may fall back
// to defaults.
func loadConfig() (*config.Config, error) {
	v := viper.New()

	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("dexpack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	return config.Load(v)
}

// newWorkflow wires the pass components for one invocation. Declared as a
// variable so command tests can substitute a mock workflow.
var newWorkflow = func(cmd *cobra.Command) (domain.Workflow, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	diag := cmd.ErrOrStderr()
	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))

	classifier := domain.NewMixedModeClassifier(cfg, adapter.NewLocalClassListReader(), diag)
	packer := domain.NewPacker(cfg, diag)
	orch := domain.NewOrchestrator(cfg, classifier, packer, domain.RegisteredPlugins(), metrics.NewSink(), diag)

	return domain.NewWorkflow(
		adapter.NewLocalManifestStore(),
		adapter.NewLocalLayoutStore(),
		ui,
		orch,
	), nil
}
