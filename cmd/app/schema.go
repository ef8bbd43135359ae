package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"SenateInsight/internal/di"
)

func newInitSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the ClickHouse database and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := di.InitSchema(cfg); err != nil {
				return err
			}
			fmt.Printf("schema ready in %s\n", cfg.ClickHouse.Database)
			return nil
		},
	}
}
