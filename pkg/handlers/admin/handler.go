package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/adapters"
	"github.com/sarafti/sarafti/pkg/models/api"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/sarafti/sarafti/pkg/services/trend"
)

const (
	reviewerHeader   = "X-Reviewer-ID"
	defaultReviewer  = "admin"
	defaultSpikeDays = 14
)

// Moderator applies the review transitions.
type Moderator interface {
	Approve(ctx context.Context, id, reviewerID string) error
	Reject(ctx context.Context, id, reviewerID string) error
	SoftDelete(ctx context.Context, id, reviewerID string) error
}

// SubmissionMetrics serves the platform-wide daily submission counts the
// spike detector consumes.
type SubmissionMetrics interface {
	DailyCounts(ctx context.Context, since time.Time) ([]store.DailyCount, error)
}

// RestaurantAdmin removes restaurants from the public surface.
type RestaurantAdmin interface {
	SoftDeleteRestaurant(ctx context.Context, id string) error
}

type Handler struct {
	moderator   Moderator
	metrics     SubmissionMetrics
	restaurants RestaurantAdmin
}

func NewHandler(moderator Moderator, metrics SubmissionMetrics, restaurants RestaurantAdmin) *Handler {
	return &Handler{
		moderator:   moderator,
		metrics:     metrics,
		restaurants: restaurants,
	}
}

func (h *Handler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.moderator.Approve, "approved")
}

func (h *Handler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.moderator.Reject, "rejected")
}

func (h *Handler) SoftDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.moderator.SoftDelete, "deleted")
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id, reviewerID string) error,
	outcome string,
) {
	ctx := r.Context()
	id := chi.URLParam(r, "submissionID")

	if err := apply(ctx, id, reviewer(r)); err != nil {
		writeError(w, ctx, err)
		return
	}
	writeJSON(w, ctx, http.StatusOK, map[string]string{"message": "submission " + outcome})
}

func (h *Handler) SoftDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "restaurantID")

	if err := h.restaurants.SoftDeleteRestaurant(ctx, id); err != nil {
		writeError(w, ctx, err)
		return
	}
	writeJSON(w, ctx, http.StatusOK, map[string]string{"message": "restaurant removed"})
}

// GetSpikes reports daily submission volume over a lookback window and the
// days that cross the spike threshold.
func (h *Handler) GetSpikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := defaultSpikeDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "days must be a positive integer"})
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	counts, err := h.metrics.DailyCounts(ctx, since)
	if err != nil {
		writeError(w, ctx, err)
		return
	}

	report := trend.DetectSpikes(adapters.MapDailyCountsStoreToDomain(counts))
	writeJSON(w, ctx, http.StatusOK, adapters.MapSpikeReportDomainToApi(report))
}

func reviewer(r *http.Request) string {
	if id := r.Header.Get(reviewerHeader); id != "" {
		return id
	}
	return defaultReviewer
}

func writeJSON(w http.ResponseWriter, ctx context.Context, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, ctx context.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, ctx, http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
	writeJSON(w, ctx, http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
}
