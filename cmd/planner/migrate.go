package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outfitplanner/backend/config"
	"github.com/outfitplanner/backend/internal/infrastructure/postgres"
)

func migrateCMD() *cobra.Command {
	var migrate = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Storage.Type != "postgres" {
				return fmt.Errorf("storage type is %q, nothing to migrate", cfg.Storage.Type)
			}

			store, err := postgres.Open(cmd.Context(), cfg.Storage.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}

	return migrate
}
