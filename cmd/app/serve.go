package main

import (
	"log"

	"github.com/spf13/cobra"

	"SenateInsight/internal/di"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and analysis scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Printf("env=%s backend=%s chamber=%s", cfg.Environment, cfg.Backend.Type, cfg.Analysis.Chamber)

			app, err := di.InitializeApp(cfg)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}
