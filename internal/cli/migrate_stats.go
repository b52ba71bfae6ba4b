package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/services"
)

type connectFunc func(context.Context) (*gorm.DB, error)

func newMigrateStatsCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-stats",
		Short: "Recount favorites and ratings for every recipe",
		Long:  "Rewrites total_favorites, total_ratings and average_rating of every recipe from the favorites and ratings tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}

			rep, err := (&services.StatsService{DB: db}).RepairAll(ctx)
			if err != nil {
				return fmt.Errorf("migrate stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "processed: %d\n", rep.Processed)
			fmt.Fprintf(out, "failed:    %d\n", rep.Failed)
			for _, e := range rep.Errors {
				fmt.Fprintf(out, "  %v\n", e)
			}
			if rep.Failed > 0 {
				return fmt.Errorf("%d recipe(s) could not be repaired", rep.Failed)
			}
			return nil
		},
	}
}
