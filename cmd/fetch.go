package cmd

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/foodswipe/internal/geo"
	"github.com/chrisdamba/foodswipe/internal/models"
	"github.com/chrisdamba/foodswipe/internal/recommend"
)

var (
	fetchTaboos   string
	fetchDislikes []string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one batch of recommendations and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		prefs := models.Preferences{Taboos: fetchTaboos}
		for _, tag := range fetchDislikes {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
				prefs.DislikedTags = append(prefs.DislikedTags, tag)
			}
		}

		gateway := recommend.New(ctx, cfg)
		items := gateway.Fetch(ctx, prefs, geo.Resolve(ctx, geo.FromConfig(cfg)))

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchTaboos, "taboos", "", "Dietary taboos, free text")
	fetchCmd.Flags().StringSliceVar(&fetchDislikes, "dislike", nil, "Tags to exclude (repeatable)")
	rootCmd.AddCommand(fetchCmd)
}
