package main

import (
	"github.com/spf13/cobra"

	"github.com/outfitplanner/backend/internal/usecase"
)

func reembedCMD() *cobra.Command {
	var limit int

	var reembed = &cobra.Command{
		Use:   "reembed",
		Short: "Recompute wardrobe embeddings with the configured encoder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			updated, err := application.Services.Wardrobe.RefreshEmbeddings(ctx, limit)
			if err != nil {
				return err
			}
			cmd.Printf("updated %d wardrobe items\n", updated)
			return nil
		},
	}
	reembed.Flags().IntVar(&limit, "limit", usecase.DefaultRefreshLimit, "maximum items to refresh")

	return reembed
}
