package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SenateInsight/pkg/config"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "senateinsight",
		Short: "Congressional trading analysis service",
		Long: `senateinsight scores congressional stock transactions against
legislative activity, committee assignments and market data, and emits
suspicion alerts.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "config file path")

	root.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
		newInitSchemaCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}
