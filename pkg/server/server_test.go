package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sarafti/sarafti/pkg/models/api"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/sarafti/sarafti/pkg/services/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) CreateRestaurant(ctx context.Context, draft store.RestaurantDraft) (domain.Restaurant, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(domain.Restaurant), args.Error(1)
}

func (m *mockRegistry) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Restaurant), args.Error(1)
}

func (m *mockRegistry) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

type mockReports struct {
	mock.Mock
}

func (m *mockReports) FetchEligibleReports(ctx context.Context, restaurantID string) ([]domain.Report, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).([]domain.Report), args.Error(1)
}

type mockIntake struct {
	mock.Mock
}

func (m *mockIntake) Submit(ctx context.Context, sub intake.Submission) (domain.Submission, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(domain.Submission), args.Error(1)
}

func (m *mockIntake) Withdraw(ctx context.Context, reporterID, restaurantID string) error {
	args := m.Called(ctx, reporterID, restaurantID)
	return args.Error(0)
}

type mockModerator struct {
	mock.Mock
}

func (m *mockModerator) Approve(ctx context.Context, id, reviewerID string) error {
	args := m.Called(ctx, id, reviewerID)
	return args.Error(0)
}

func (m *mockModerator) Reject(ctx context.Context, id, reviewerID string) error {
	args := m.Called(ctx, id, reviewerID)
	return args.Error(0)
}

func (m *mockModerator) SoftDelete(ctx context.Context, id, reviewerID string) error {
	args := m.Called(ctx, id, reviewerID)
	return args.Error(0)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) DailyCounts(ctx context.Context, since time.Time) ([]store.DailyCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]store.DailyCount), args.Error(1)
}

type mockRestaurantAdmin struct {
	mock.Mock
}

func (m *mockRestaurantAdmin) SoftDeleteRestaurant(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func intPtr(v int) *int { return &v }

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	registry := new(mockRegistry)
	reports := new(mockReports)
	intakeSvc := new(mockIntake)
	moderator := new(mockModerator)
	metrics := new(mockMetrics)
	restaurantAdmin := new(mockRestaurantAdmin)

	config := Config{
		Addr:       ":8080",
		AdminToken: "secret",
		Dependencies: Dependencies{
			Registry:    registry,
			Reports:     reports,
			Intake:      intakeSvc,
			Moderator:   moderator,
			Metrics:     metrics,
			Restaurants: restaurantAdmin,
			Logger:      logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		headers        map[string]string
		body           any
		setupMocks     func()
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:   "ListRestaurants",
			method: http.MethodGet,
			path:   "/api/v1/restaurants",
			setupMocks: func() {
				registry.On("ListRestaurants", mock.Anything).
					Return([]domain.Restaurant{{ID: "r-1", Name: "Shavi Lomi", City: "Tbilisi", Score: 12.5}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got []api.Restaurant
				require.NoError(t, json.Unmarshal(body, &got))
				require.Len(t, got, 1)
				assert.Equal(t, "Shavi Lomi", got[0].Name)
				assert.Equal(t, 12.5, got[0].Score)
			},
		},
		{
			name:   "GetRestaurant_ComputesLiveMetrics",
			method: http.MethodGet,
			path:   "/api/v1/restaurants/r-1",
			setupMocks: func() {
				registry.On("GetRestaurant", mock.Anything, "r-1").
					Return(domain.Restaurant{ID: "r-1", Name: "Shavi Lomi"}, nil).Once()
				reports.On("FetchEligibleReports", mock.Anything, "r-1").
					Return([]domain.Report{
						{ReporterID: "A", Categories: []string{domain.CategoryHygiene}, Rating: intPtr(1)},
						{ReporterID: "B", Categories: []string{domain.CategoryOverpriced, domain.CategoryFoodQuality}, Rating: intPtr(2)},
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.RestaurantDetail
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "r-1", got.Restaurant.ID)
				assert.Equal(t, 8.9, got.Metrics.Score)
				assert.Equal(t, 2, got.Metrics.TotalSubmissions)
				require.Len(t, got.Metrics.TopIssues, 3)
			},
		},
		{
			name:   "GetRestaurant_NotFound",
			method: http.MethodGet,
			path:   "/api/v1/restaurants/missing",
			setupMocks: func() {
				registry.On("GetRestaurant", mock.Anything, "missing").
					Return(domain.Restaurant{}, domain.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "SubmitReport_MissingReporterHeader",
			method:         http.MethodPost,
			path:           "/api/v1/submissions",
			body:           api.SubmissionRequest{RestaurantID: "r-1", Categories: []string{domain.CategoryHygiene}},
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "SubmitReport",
			method:  http.MethodPost,
			path:    "/api/v1/submissions",
			headers: map[string]string{"X-Reporter-ID": "user-1"},
			body:    api.SubmissionRequest{RestaurantID: "r-1", Categories: []string{domain.CategoryHygiene}},
			setupMocks: func() {
				intakeSvc.On("Submit", mock.Anything, intake.Submission{
					RestaurantID: "r-1",
					ReporterID:   "user-1",
					Categories:   []string{domain.CategoryHygiene},
				}).Return(domain.Submission{ID: "s-1", Status: domain.StatusPending}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.SubmissionResponse
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "s-1", got.ID)
				assert.Equal(t, string(domain.StatusPending), got.Status)
			},
		},
		{
			name:    "SubmitReport_Flagged",
			method:  http.MethodPost,
			path:    "/api/v1/submissions",
			headers: map[string]string{"X-Reporter-ID": "user-2"},
			body:    api.SubmissionRequest{RestaurantID: "r-1", Categories: []string{domain.CategoryOther}, OtherReason: "spam", Comment: "spam"},
			setupMocks: func() {
				intakeSvc.On("Submit", mock.Anything, mock.MatchedBy(func(s intake.Submission) bool {
					return s.ReporterID == "user-2"
				})).Return(domain.Submission{}, intake.ErrFlagged).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:    "WithdrawSubmission",
			method:  http.MethodDelete,
			path:    "/api/v1/submissions?restaurantId=r-1",
			headers: map[string]string{"X-Reporter-ID": "user-1"},
			setupMocks: func() {
				intakeSvc.On("Withdraw", mock.Anything, "user-1", "r-1").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "CreateRestaurant_Duplicate",
			method:  http.MethodPost,
			path:    "/api/v1/restaurants",
			headers: map[string]string{"X-Reporter-ID": "user-1"},
			body:    api.CreateRestaurantRequest{Name: "Shavi Lomi", City: "Tbilisi", Cuisine: "Georgian"},
			setupMocks: func() {
				registry.On("CreateRestaurant", mock.Anything, mock.Anything).
					Return(domain.Restaurant{}, domain.ErrDuplicate).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "AdminRoute_MissingToken",
			method:         http.MethodPost,
			path:           "/api/v1/admin/submissions/s-1/approve",
			setupMocks:     func() {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "AdminApprove",
			method:  http.MethodPost,
			path:    "/api/v1/admin/submissions/s-1/approve",
			headers: map[string]string{"Authorization": "Bearer secret", "X-Reviewer-ID": "mod-1"},
			setupMocks: func() {
				moderator.On("Approve", mock.Anything, "s-1", "mod-1").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "AdminSpikes",
			method:  http.MethodGet,
			path:    "/api/v1/admin/spikes",
			headers: map[string]string{"Authorization": "Bearer secret"},
			setupMocks: func() {
				metrics.On("DailyCounts", mock.Anything, mock.Anything).
					Return([]store.DailyCount{{Date: "2026-08-20", Count: 3}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.SpikeReport
				require.NoError(t, json.Unmarshal(body, &got))
				require.Len(t, got.Series, 1)
				assert.Empty(t, got.Spikes)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			var reqBody io.Reader
			if tc.body != nil {
				raw, err := json.Marshal(tc.body)
				require.NoError(t, err)
				reqBody = bytes.NewReader(raw)
			}

			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, reqBody)
			require.NoError(t, err)
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}

	registry.AssertExpectations(t)
	intakeSvc.AssertExpectations(t)
	moderator.AssertExpectations(t)
}
