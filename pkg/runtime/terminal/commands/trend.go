package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sarafti/sarafti/pkg/services/trend"
	"github.com/spf13/cobra"
)

func NewTrendCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "trend <restaurant-id>",
		Short: "Show daily negative-report rates for a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := deps.Restaurants.GetRestaurant(ctx, args[0]); err != nil {
				return fmt.Errorf("load restaurant %s: %w", args[0], err)
			}

			reports, err := deps.Submissions.FetchEligibleReports(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetch reports: %w", err)
			}

			return deps.Reporter.Trend(trend.Build(reports))
		},
	}
}
