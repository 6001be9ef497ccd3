package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewRestaurantsCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants with their stored scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			restaurants, err := deps.Restaurants.ListRestaurants(ctx)
			if err != nil {
				return fmt.Errorf("list restaurants: %w", err)
			}
			return deps.Reporter.Restaurants(restaurants)
		},
	}
}
