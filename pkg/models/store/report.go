package store

import (
	"database/sql"
	"time"
)

type Submission struct {
	ID           string
	RestaurantID string
	ReporterID   string
	Categories   []string
	OtherReason  sql.NullString
	Comment      sql.NullString
	Rating       sql.NullInt64
	Status       string
	ReviewerID   sql.NullString
	ApprovedAt   sql.NullTime
	RejectedAt   sql.NullTime
	DeletedAt    sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SubmissionDraft struct {
	RestaurantID string
	ReporterID   string
	Categories   []string
	OtherReason  string
	Comment      string
	Rating       *int
}

type ModerationLogEntry struct {
	ID        string
	UserID    string
	InputType string
	Content   string
	Flagged   bool
	Model     string
	CreatedAt time.Time
}

type DailyCount struct {
	Date  string
	Count int
}
