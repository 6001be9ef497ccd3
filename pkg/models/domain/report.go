package domain

import "time"

// SubmissionStatus tracks where a submission sits in the moderation lifecycle.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "PENDING"
	StatusApproved SubmissionStatus = "APPROVED"
	StatusRejected SubmissionStatus = "REJECTED"
)

// Structured issue categories a reporter can select. Unknown labels are
// tolerated downstream and weighted at a neutral default.
const (
	CategoryHygiene     = "Hygiene concerns"
	CategoryFoodQuality = "Poor food quality"
	CategoryBadService  = "Bad service"
	CategoryWaitingTime = "Long waiting time"
	CategoryOverpriced  = "Overpriced"
	CategoryOther       = "Other"
)

// Categories lists the fixed enumeration in display order.
var Categories = []string{
	CategoryHygiene,
	CategoryFoodQuality,
	CategoryBadService,
	CategoryWaitingTime,
	CategoryOverpriced,
	CategoryOther,
}

// Report is the scoring engine's read-only view of one submission.
// ReporterID is used only for unique-reporter counting and is never exposed.
// Rating is nil when the reporter gave no star rating.
type Report struct {
	ReporterID string
	Categories []string
	Rating     *int
	OccurredAt time.Time
}

// Submission is the full moderated record behind a Report.
type Submission struct {
	ID           string
	RestaurantID string
	ReporterID   string
	Categories   []string
	OtherReason  string
	Comment      string
	Rating       *int
	Status       SubmissionStatus
	ReviewerID   string
	ApprovedAt   *time.Time
	RejectedAt   *time.Time
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Eligible reports whether the submission currently counts toward its
// restaurant's public aggregate.
func (s Submission) Eligible() bool {
	return s.Status == StatusApproved && s.DeletedAt == nil
}
