package api

import "time"

type Restaurant struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	City             string     `json:"city"`
	Cuisine          string     `json:"cuisine"`
	Address          string     `json:"address,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	Score            float64    `json:"score"`
	TotalSubmissions int        `json:"totalSubmissions"`
	AverageRating    *float64   `json:"averageRating"`
	TopIssues        []TopIssue `json:"topIssues"`
}

// RestaurantDetail combines stored identity fields with metrics computed
// live over the current eligible report set.
type RestaurantDetail struct {
	Restaurant Restaurant      `json:"restaurant"`
	Metrics    AggregateResult `json:"metrics"`
	Trend      []TrendPoint    `json:"trend"`
}

type CreateRestaurantRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Cuisine string `json:"cuisine"`
	Address string `json:"address"`
}

type SubmissionRequest struct {
	RestaurantID string   `json:"restaurantId"`
	Categories   []string `json:"reasons"`
	OtherReason  string   `json:"otherReason"`
	Comment      string   `json:"comment"`
	Rating       *int     `json:"rating"`
}

type SubmissionResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
