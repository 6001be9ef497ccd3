package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/adapters"
	"github.com/sarafti/sarafti/pkg/models/api"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/sarafti/sarafti/pkg/services/intake"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	"github.com/sarafti/sarafti/pkg/services/trend"
)

// reporterHeader carries the caller identity. There is no account system;
// clients present a stable opaque id.
const reporterHeader = "X-Reporter-ID"

// Registry covers the restaurant reads and writes the public API exposes.
type Registry interface {
	CreateRestaurant(ctx context.Context, draft store.RestaurantDraft) (domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
}

// ReportSource yields the eligible reports the detail view recomputes from.
type ReportSource interface {
	FetchEligibleReports(ctx context.Context, restaurantID string) ([]domain.Report, error)
}

// IntakeService accepts and withdraws reporter submissions.
type IntakeService interface {
	Submit(ctx context.Context, sub intake.Submission) (domain.Submission, error)
	Withdraw(ctx context.Context, reporterID, restaurantID string) error
}

type Handler struct {
	registry Registry
	reports  ReportSource
	intake   IntakeService
}

func NewHandler(registry Registry, reports ReportSource, intakeSvc IntakeService) *Handler {
	return &Handler{
		registry: registry,
		reports:  reports,
		intake:   intakeSvc,
	}
}

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurants, err := h.registry.ListRestaurants(ctx)
	if err != nil {
		writeError(w, ctx, err)
		return
	}

	response := make([]api.Restaurant, 0, len(restaurants))
	for _, restaurant := range restaurants {
		response = append(response, adapters.MapRestaurantDomainToApi(restaurant))
	}
	writeJSON(w, ctx, http.StatusOK, response)
}

func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reporterID := r.Header.Get(reporterHeader)
	if reporterID == "" {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "missing " + reporterHeader + " header"})
		return
	}

	var req api.CreateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" || req.City == "" || req.Cuisine == "" {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "name, city and cuisine are required"})
		return
	}

	restaurant, err := h.registry.CreateRestaurant(ctx, store.RestaurantDraft{
		Name:        req.Name,
		City:        req.City,
		Cuisine:     req.Cuisine,
		Address:     req.Address,
		CreatedByID: reporterID,
	})
	if err != nil {
		writeError(w, ctx, err)
		return
	}
	writeJSON(w, ctx, http.StatusCreated, adapters.MapRestaurantDomainToApi(restaurant))
}

// GetRestaurant serves the detail view. Metrics and trend are recomputed
// from the current eligible reports rather than read from the stored
// aggregate columns, so a reviewer decision shows up immediately.
func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "restaurantID")

	restaurant, err := h.registry.GetRestaurant(ctx, id)
	if err != nil {
		writeError(w, ctx, err)
		return
	}

	reports, err := h.reports.FetchEligibleReports(ctx, id)
	if err != nil {
		writeError(w, ctx, err)
		return
	}

	detail := api.RestaurantDetail{
		Restaurant: adapters.MapRestaurantDomainToApi(restaurant),
		Metrics:    adapters.MapAggregateDomainToApi(scoring.Aggregate(reports)),
		Trend:      adapters.MapTrendDomainToApi(trend.Build(reports)),
	}
	writeJSON(w, ctx, http.StatusOK, detail)
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reporterID := r.Header.Get(reporterHeader)
	if reporterID == "" {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "missing " + reporterHeader + " header"})
		return
	}

	var req api.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	submission, err := h.intake.Submit(ctx, intake.Submission{
		RestaurantID: req.RestaurantID,
		ReporterID:   reporterID,
		Categories:   req.Categories,
		OtherReason:  req.OtherReason,
		Comment:      req.Comment,
		Rating:       req.Rating,
	})
	if err != nil {
		writeError(w, ctx, err)
		return
	}
	writeJSON(w, ctx, http.StatusOK, adapters.MapSubmissionDomainToApi(submission))
}

func (h *Handler) WithdrawSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reporterID := r.Header.Get(reporterHeader)
	if reporterID == "" {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "missing " + reporterHeader + " header"})
		return
	}
	restaurantID := r.URL.Query().Get("restaurantId")
	if restaurantID == "" {
		writeJSON(w, ctx, http.StatusBadRequest, api.ErrorResponse{Error: "restaurantId is required"})
		return
	}

	if err := h.intake.Withdraw(ctx, reporterID, restaurantID); err != nil {
		writeError(w, ctx, err)
		return
	}
	writeJSON(w, ctx, http.StatusOK, map[string]string{"message": "submission removed"})
}

func writeJSON(w http.ResponseWriter, ctx context.Context, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, ctx context.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, intake.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, intake.ErrFlagged):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
		writeJSON(w, ctx, status, api.ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, ctx, status, api.ErrorResponse{Error: err.Error()})
}
