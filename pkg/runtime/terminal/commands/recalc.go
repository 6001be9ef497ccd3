package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewRecalcCmd(deps Deps) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "recalc [restaurant-id]",
		Short: "Recompute and persist stored aggregates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			if !all && len(args) == 0 {
				return fmt.Errorf("provide a restaurant id or --all")
			}

			ids := args
			if all {
				liveIDs, err := deps.Restaurants.ListLiveRestaurantIDs(ctx)
				if err != nil {
					return fmt.Errorf("list restaurants: %w", err)
				}
				ids = liveIDs
			}

			for _, id := range ids {
				result, err := deps.Recalc.Recalculate(ctx, id)
				if err != nil {
					return fmt.Errorf("recalculate %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: score %.2f over %d submissions\n",
					id, result.Score, result.TotalSubmissions)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Recalculate every live restaurant")
	return cmd
}
