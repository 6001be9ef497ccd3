package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sarafti/sarafti/pkg/services/scoring"
	"github.com/spf13/cobra"
)

func NewStatsCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <restaurant-id>",
		Short: "Show the computed community score for a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			restaurant, err := deps.Restaurants.GetRestaurant(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load restaurant %s: %w", args[0], err)
			}

			reports, err := deps.Submissions.FetchEligibleReports(ctx, restaurant.ID)
			if err != nil {
				return fmt.Errorf("fetch reports: %w", err)
			}

			return deps.Reporter.RestaurantStats(restaurant, scoring.Aggregate(reports))
		},
	}
}
