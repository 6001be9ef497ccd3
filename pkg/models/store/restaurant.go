package store

import (
	"database/sql"
	"time"
)

type Restaurant struct {
	ID          string
	Name        string
	City        string
	Cuisine     string
	Address     sql.NullString
	CreatedByID sql.NullString
	SoftDeleted bool
	CreatedAt   time.Time

	Score                 float64
	CommunityNegativeRate float64
	TotalSubmissions      int
	AverageRating         sql.NullFloat64
	TopIssuesJSON         []byte
}

type RestaurantDraft struct {
	Name        string
	City        string
	Cuisine     string
	Address     string
	CreatedByID string
}

// AggregateRecord is the persisted form of a recomputed aggregate. TopIssues
// are stored as a JSON column; the adapter owns the encoding.
type AggregateRecord struct {
	Score                 float64
	CommunityNegativeRate float64
	TotalSubmissions      int
	AverageRating         sql.NullFloat64
	TopIssuesJSON         []byte
}
