package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "chargeplan",
	Short: "Charging station network planner",
	Long: `chargeplan selects charging station sites from a candidate catalog so that
the demand served within the coverage range is maximised under a budget.`,
	RunE:         runPlan,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	addPlanFlags(rootCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
