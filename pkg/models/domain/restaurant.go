package domain

import "time"

// Restaurant is the subject reports are aggregated against. The aggregate
// fields mirror the last persisted AggregateResult and are refreshed in
// full by the recalculation orchestrator.
type Restaurant struct {
	ID          string
	Name        string
	City        string
	Cuisine     string
	Address     string
	CreatedByID string
	SoftDeleted bool
	CreatedAt   time.Time

	Score                 float64
	CommunityNegativeRate float64
	TotalSubmissions      int
	AverageRating         *float64
	TopIssues             []TopIssue
}
