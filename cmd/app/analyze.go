package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SenateInsight/internal/di"
)

func newAnalyzeCmd() *cobra.Command {
	var days int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze [member-id]",
		Short: "Run analysis for one member, or every member when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			orch, err := di.InitializeOrchestrator(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if len(args) == 1 {
				alerts, err := orch.AnalyzeMemberByID(ctx, args[0], days)
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(alerts)
				}
				fmt.Printf("%d alert(s) for %s\n", len(alerts), args[0])
				for _, a := range alerts {
					fmt.Printf("  [%.2f] %s\n", a.ConfidenceScore, a.Description)
				}
				return nil
			}

			summary, err := orch.Run(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(summary)
			}
			fmt.Printf("processed %d member(s), %d alert(s), %d error(s) in %s\n",
				summary.MembersProcessed, summary.AlertsGenerated, len(summary.MemberErrors), summary.Duration)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "lookback window in days (0 uses config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit JSON instead of text")
	return cmd
}
