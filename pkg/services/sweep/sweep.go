package sweep

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/models/domain"
)

// RestaurantLister enumerates the restaurants whose aggregates the sweep
// should refresh.
type RestaurantLister interface {
	ListLiveRestaurantIDs(ctx context.Context) ([]string, error)
}

// Recalculator re-derives a restaurant's stored aggregate.
type Recalculator interface {
	Recalculate(ctx context.Context, restaurantID string) (domain.AggregateResult, error)
}

// Sweeper periodically recomputes every live restaurant's aggregate.
// Recalculation is already triggered on each eligibility change, so the
// sweep only heals drift (missed triggers, manual DB edits); a failed
// restaurant is logged and skipped rather than aborting the run.
type Sweeper struct {
	restaurants RestaurantLister
	recalc      Recalculator
	logger      zerolog.Logger
	cron        *cron.Cron
}

func New(restaurants RestaurantLister, recalc Recalculator, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		restaurants: restaurants,
		recalc:      recalc,
		logger:      logger,
	}
}

// Start schedules the sweep with a cron expression (e.g. "@hourly") and
// begins running it in the background.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.Run(ctx); err != nil {
			s.logger.Error().Err(err).Msg("reconciliation sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info().Str("schedule", schedule).Msg("reconciliation sweep scheduled")
	return nil
}

// Stop cancels the schedule and waits for an in-flight run to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Run performs one full sweep.
func (s *Sweeper) Run(ctx context.Context) error {
	ids, err := s.restaurants.ListLiveRestaurantIDs(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}

	var failed int
	for _, id := range ids {
		if _, err := s.recalc.Recalculate(ctx, id); err != nil {
			failed++
			s.logger.Warn().Err(err).Str("restaurant_id", id).Msg("sweep recalculation failed")
		}
	}

	s.logger.Info().
		Int("restaurants", len(ids)).
		Int("failed", failed).
		Msg("reconciliation sweep finished")

	if failed > 0 {
		return fmt.Errorf("sweep finished with %d of %d restaurants failed", failed, len(ids))
	}
	return nil
}
