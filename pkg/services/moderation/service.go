package moderation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/models/domain"
)

// SubmissionStore is the slice of the datastore the moderation workflow
// needs: lookups plus the three review transitions. Each transition also
// records the reviewer and its timestamp.
type SubmissionStore interface {
	GetSubmission(ctx context.Context, id string) (domain.Submission, error)
	MarkApproved(ctx context.Context, id, reviewerID string) error
	MarkRejected(ctx context.Context, id, reviewerID string) error
	MarkDeleted(ctx context.Context, id, reviewerID string) error
}

// Recalculator re-derives a restaurant's stored aggregate.
type Recalculator interface {
	Recalculate(ctx context.Context, restaurantID string) (domain.AggregateResult, error)
}

// Service applies admin review decisions and triggers aggregate
// recalculation exactly when the decision changed the eligible report set.
// Redundant transitions (approving an approved submission, rejecting a
// pending one) skip the recalculation to avoid pointless rescans.
type Service struct {
	store  SubmissionStore
	recalc Recalculator
}

func NewService(store SubmissionStore, recalc Recalculator) *Service {
	return &Service{store: store, recalc: recalc}
}

// Approve marks the submission approved. Deleted submissions are treated
// as missing.
func (s *Service) Approve(ctx context.Context, id, reviewerID string) error {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return fmt.Errorf("get submission %s: %w", id, err)
	}
	if sub.DeletedAt != nil {
		return domain.ErrNotFound
	}

	if err := s.store.MarkApproved(ctx, id, reviewerID); err != nil {
		return fmt.Errorf("approve submission %s: %w", id, err)
	}

	if sub.Status == domain.StatusApproved {
		return nil
	}
	return s.recalculate(ctx, sub.RestaurantID, "approve")
}

// Reject marks the submission rejected. The aggregate only moves if the
// submission was counted before.
func (s *Service) Reject(ctx context.Context, id, reviewerID string) error {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return fmt.Errorf("get submission %s: %w", id, err)
	}
	if sub.DeletedAt != nil {
		return domain.ErrNotFound
	}

	if err := s.store.MarkRejected(ctx, id, reviewerID); err != nil {
		return fmt.Errorf("reject submission %s: %w", id, err)
	}

	if sub.Status != domain.StatusApproved {
		return nil
	}
	return s.recalculate(ctx, sub.RestaurantID, "reject")
}

// SoftDelete hides the submission from every surface. Repeating a delete
// is a no-op for the aggregate.
func (s *Service) SoftDelete(ctx context.Context, id, reviewerID string) error {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return fmt.Errorf("get submission %s: %w", id, err)
	}

	if err := s.store.MarkDeleted(ctx, id, reviewerID); err != nil {
		return fmt.Errorf("soft-delete submission %s: %w", id, err)
	}

	if !sub.Eligible() {
		return nil
	}
	return s.recalculate(ctx, sub.RestaurantID, "soft-delete")
}

func (s *Service) recalculate(ctx context.Context, restaurantID, action string) error {
	if _, err := s.recalc.Recalculate(ctx, restaurantID); err != nil {
		return fmt.Errorf("recalculate after %s: %w", action, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("restaurant_id", restaurantID).
		Str("action", action).
		Msg("eligible set changed, aggregate refreshed")
	return nil
}
