package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/spf13/cobra"
)

type seedSubmission struct {
	reporter   string
	categories []string
	rating     *int
	approve    bool
}

type seedRestaurant struct {
	draft       store.RestaurantDraft
	submissions []seedSubmission
}

func seedData() []seedRestaurant {
	rate := func(v int) *int { return &v }
	return []seedRestaurant{
		{
			draft: store.RestaurantDraft{Name: "Shavi Lomi", City: "Tbilisi", Cuisine: "Georgian"},
			submissions: []seedSubmission{
				{reporter: "seed-reporter-1", categories: []string{domain.CategoryHygiene}, rating: rate(1), approve: true},
				{reporter: "seed-reporter-2", categories: []string{domain.CategoryBadService, domain.CategoryWaitingTime}, rating: rate(2), approve: true},
				{reporter: "seed-reporter-3", categories: []string{domain.CategoryOverpriced}, rating: rate(3), approve: false},
			},
		},
		{
			draft: store.RestaurantDraft{Name: "Cafe Littera", City: "Tbilisi", Cuisine: "European"},
			submissions: []seedSubmission{
				{reporter: "seed-reporter-1", categories: []string{domain.CategoryOverpriced}, rating: rate(3), approve: true},
			},
		},
		{
			draft: store.RestaurantDraft{Name: "Machakhela", City: "Batumi", Cuisine: "Georgian"},
		},
	}
}

// NewSeedCmd loads a small demo dataset so the API and the other commands
// have something to show. Safe to run twice: duplicate restaurants are
// skipped, submissions upsert.
func NewSeedCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo restaurants and submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			for _, entry := range seedData() {
				restaurant, err := deps.Restaurants.CreateRestaurant(ctx, entry.draft)
				if errors.Is(err, domain.ErrDuplicate) {
					fmt.Fprintf(cmd.OutOrStdout(), "skipping %s, already present\n", entry.draft.Name)
					continue
				}
				if err != nil {
					return fmt.Errorf("create %s: %w", entry.draft.Name, err)
				}

				for _, sub := range entry.submissions {
					created, err := deps.Submissions.UpsertSubmission(ctx, store.SubmissionDraft{
						RestaurantID: restaurant.ID,
						ReporterID:   sub.reporter,
						Categories:   sub.categories,
						Rating:       sub.rating,
					})
					if err != nil {
						return fmt.Errorf("seed submission for %s: %w", restaurant.Name, err)
					}
					if sub.approve {
						if err := deps.Submissions.MarkApproved(ctx, created.ID, "seed"); err != nil {
							return fmt.Errorf("approve seed submission: %w", err)
						}
					}
				}

				result, err := deps.Recalc.Recalculate(ctx, restaurant.ID)
				if err != nil {
					return fmt.Errorf("recalculate %s: %w", restaurant.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s seeded, score %.2f\n", restaurant.Name, result.Score)
			}
			return nil
		},
	}
}
