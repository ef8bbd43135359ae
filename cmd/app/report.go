package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"SenateInsight/internal/di"
)

func newReportCmd() *cobra.Command {
	var days int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a summary report of recent alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reporter, err := di.InitializeReporter(cfg)
			if err != nil {
				return err
			}

			since := time.Now().UTC().AddDate(0, 0, -days)
			rep, err := reporter.Generate(cmd.Context(), since, 0)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(rep)
			}
			fmt.Print(rep.Render())
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "report window in days")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit JSON instead of text")
	return cmd
}
