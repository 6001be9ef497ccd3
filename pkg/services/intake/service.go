package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/sarafti/sarafti/pkg/services/moderation"
)

// Validation and safety outcomes surfaced to the transport layer.
var (
	ErrInvalid = errors.New("invalid submission")
	ErrFlagged = errors.New("submission blocked by safety moderation")
)

const (
	maxCategories      = 6
	maxOtherReasonLen  = 120
	maxCommentLen      = 200
	inputTypeComment   = "COMMENT"
	inputTypeOtherText = "OTHER_REASON"
)

// SubmissionWriter covers the intake-side store operations. Upsert keeps
// one submission per (reporter, restaurant): a resubmission replaces the
// content and resets the review state to pending.
type SubmissionWriter interface {
	UpsertSubmission(ctx context.Context, draft store.SubmissionDraft) (domain.Submission, error)
	WithdrawSubmission(ctx context.Context, reporterID, restaurantID string) (domain.Submission, error)
	RecordModeration(ctx context.Context, entry store.ModerationLogEntry) error
}

// RestaurantChecker confirms the target restaurant exists and is live.
type RestaurantChecker interface {
	RestaurantExists(ctx context.Context, id string) (bool, error)
}

// Recalculator re-derives a restaurant's stored aggregate.
type Recalculator interface {
	Recalculate(ctx context.Context, restaurantID string) (domain.AggregateResult, error)
}

// Submission is a validated intake request.
type Submission struct {
	RestaurantID string
	ReporterID   string
	Categories   []string
	OtherReason  string
	Comment      string
	Rating       *int
}

// Service accepts and withdraws reporter submissions. Free-text fields run
// through the injected classifier before anything is stored; the verdicts
// are logged either way.
type Service struct {
	submissions SubmissionWriter
	restaurants RestaurantChecker
	classifier  moderation.Classifier
	recalc      Recalculator
}

func NewService(
	submissions SubmissionWriter,
	restaurants RestaurantChecker,
	classifier moderation.Classifier,
	recalc Recalculator,
) *Service {
	return &Service{
		submissions: submissions,
		restaurants: restaurants,
		classifier:  classifier,
		recalc:      recalc,
	}
}

// Submit validates, moderates and stores one submission. If the reporter
// had an approved submission for this restaurant, the upsert pulls it out
// of the eligible set, so the aggregate is refreshed.
func (s *Service) Submit(ctx context.Context, sub Submission) (domain.Submission, error) {
	if err := validate(sub); err != nil {
		return domain.Submission{}, err
	}

	exists, err := s.restaurants.RestaurantExists(ctx, sub.RestaurantID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("check restaurant %s: %w", sub.RestaurantID, err)
	}
	if !exists {
		return domain.Submission{}, domain.ErrNotFound
	}

	if err := s.moderate(ctx, sub); err != nil {
		return domain.Submission{}, err
	}

	stored, err := s.submissions.UpsertSubmission(ctx, store.SubmissionDraft{
		RestaurantID: sub.RestaurantID,
		ReporterID:   sub.ReporterID,
		Categories:   sub.Categories,
		OtherReason:  sub.OtherReason,
		Comment:      sub.Comment,
		Rating:       sub.Rating,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("upsert submission: %w", err)
	}

	// The upsert resets status to pending. Refresh unconditionally: a brand
	// new pending submission recomputes to the identical aggregate, while a
	// replaced approved one must leave the eligible set now.
	if _, err := s.recalc.Recalculate(ctx, sub.RestaurantID); err != nil {
		return domain.Submission{}, fmt.Errorf("recalculate after submit: %w", err)
	}

	return stored, nil
}

// Withdraw soft-deletes the reporter's own submission for a restaurant.
func (s *Service) Withdraw(ctx context.Context, reporterID, restaurantID string) error {
	previous, err := s.submissions.WithdrawSubmission(ctx, reporterID, restaurantID)
	if err != nil {
		return fmt.Errorf("withdraw submission: %w", err)
	}

	if !previous.Eligible() {
		return nil
	}
	if _, err := s.recalc.Recalculate(ctx, restaurantID); err != nil {
		return fmt.Errorf("recalculate after withdraw: %w", err)
	}
	return nil
}

func (s *Service) moderate(ctx context.Context, sub Submission) error {
	logger := zerolog.Ctx(ctx)

	inputs := []struct {
		kind string
		text string
	}{
		{inputTypeComment, strings.TrimSpace(sub.Comment)},
		{inputTypeOtherText, strings.TrimSpace(sub.OtherReason)},
	}

	for _, input := range inputs {
		if input.text == "" {
			continue
		}

		verdict, err := s.classifier.Classify(ctx, input.text)
		if err != nil {
			return fmt.Errorf("classify %s: %w", strings.ToLower(input.kind), err)
		}

		logErr := s.submissions.RecordModeration(ctx, store.ModerationLogEntry{
			UserID:    sub.ReporterID,
			InputType: input.kind,
			Content:   input.text,
			Flagged:   verdict.Flagged,
			Model:     verdict.Model,
		})
		if logErr != nil {
			logger.Warn().Err(logErr).Msg("failed to record moderation verdict")
		}

		if verdict.Flagged {
			return ErrFlagged
		}
	}

	return nil
}

func validate(sub Submission) error {
	if sub.RestaurantID == "" || sub.ReporterID == "" {
		return fmt.Errorf("%w: missing identifiers", ErrInvalid)
	}
	if len(sub.Categories) == 0 {
		return fmt.Errorf("%w: select at least one reason", ErrInvalid)
	}
	if len(sub.Categories) > maxCategories {
		return fmt.Errorf("%w: too many reasons", ErrInvalid)
	}

	known := make(map[string]struct{}, len(domain.Categories))
	for _, c := range domain.Categories {
		known[c] = struct{}{}
	}
	hasOther := false
	for _, c := range sub.Categories {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("%w: unknown reason %q", ErrInvalid, c)
		}
		if c == domain.CategoryOther {
			hasOther = true
		}
	}

	if hasOther && strings.TrimSpace(sub.OtherReason) == "" {
		return fmt.Errorf("%w: provide details for Other", ErrInvalid)
	}
	if len(sub.OtherReason) > maxOtherReasonLen {
		return fmt.Errorf("%w: other reason too long", ErrInvalid)
	}
	if len(sub.Comment) > maxCommentLen {
		return fmt.Errorf("%w: comment too long", ErrInvalid)
	}
	if sub.Rating != nil && (*sub.Rating < 1 || *sub.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	}

	return nil
}
