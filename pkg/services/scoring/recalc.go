package scoring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/models/domain"
)

// ReportSource returns the currently eligible (approved, non-deleted)
// reports for a restaurant, reflecting the latest committed state.
type ReportSource interface {
	FetchEligibleReports(ctx context.Context, restaurantID string) ([]domain.Report, error)
}

// ScoreSink persists a recomputed aggregate onto the restaurant record,
// fully overwriting the previous values.
type ScoreSink interface {
	PersistAggregate(ctx context.Context, restaurantID string, result domain.AggregateResult) error
}

// Recalculator re-derives a restaurant's stored aggregate from its current
// eligible report set. Each run is a full independent recomputation, so
// racing callers for the same restaurant settle on last-write-wins without
// corrupting anything.
type Recalculator struct {
	source ReportSource
	sink   ScoreSink
}

func NewRecalculator(source ReportSource, sink ScoreSink) *Recalculator {
	return &Recalculator{source: source, sink: sink}
}

// Recalculate fetches, aggregates and persists. A fetch failure propagates
// and nothing is written; a persist failure propagates after the fetch.
func (r *Recalculator) Recalculate(ctx context.Context, restaurantID string) (domain.AggregateResult, error) {
	logger := zerolog.Ctx(ctx)

	reports, err := r.source.FetchEligibleReports(ctx, restaurantID)
	if err != nil {
		return domain.AggregateResult{}, fmt.Errorf("fetch eligible reports for %s: %w", restaurantID, err)
	}

	result := Aggregate(reports)

	if err := r.sink.PersistAggregate(ctx, restaurantID, result); err != nil {
		return domain.AggregateResult{}, fmt.Errorf("persist aggregate for %s: %w", restaurantID, err)
	}

	logger.Debug().
		Str("restaurant_id", restaurantID).
		Float64("score", result.Score).
		Int("submissions", result.TotalSubmissions).
		Msg("aggregate recalculated")

	return result, nil
}
