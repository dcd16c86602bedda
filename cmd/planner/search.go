package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/outfitplanner/backend/internal/domain"
)

func searchCMD() *cobra.Command {
	var color string
	var maxResults int
	var fresh bool

	var search = &cobra.Command{
		Use:   "search <category>",
		Short: "Search every configured storefront and print the aggregated products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			svc := application.Services.Search
			if fresh {
				if err := svc.Invalidate(ctx, args[0], color); err != nil {
					return err
				}
			}

			resp, err := svc.Search(ctx, &domain.SearchRequest{
				Category:   args[0],
				Color:      color,
				MaxResults: maxResults,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	search.Flags().StringVar(&color, "color", "", "color filter")
	search.Flags().IntVar(&maxResults, "max", 0, "maximum products (0 = default)")
	search.Flags().BoolVar(&fresh, "fresh", false, "drop any cached result before searching")

	return search
}
