package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sarafti/sarafti/pkg/adapters"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
)

// Store owns the submissions and moderation_log tables. It serves three
// callers: the intake service (upsert/withdraw), the moderation service
// (review transitions) and the scoring engine (eligible report fetch,
// daily counts).
type Store interface {
	GetSubmission(ctx context.Context, id string) (domain.Submission, error)
	MarkApproved(ctx context.Context, id, reviewerID string) error
	MarkRejected(ctx context.Context, id, reviewerID string) error
	MarkDeleted(ctx context.Context, id, reviewerID string) error

	UpsertSubmission(ctx context.Context, draft store.SubmissionDraft) (domain.Submission, error)
	WithdrawSubmission(ctx context.Context, reporterID, restaurantID string) (domain.Submission, error)
	RecordModeration(ctx context.Context, entry store.ModerationLogEntry) error

	FetchEligibleReports(ctx context.Context, restaurantID string) ([]domain.Report, error)
	DailyCounts(ctx context.Context, since time.Time) ([]store.DailyCount, error)
}

type submissionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &submissionStore{db: db, now: time.Now}, nil
}

const submissionColumns = `id, restaurant_id, reporter_id, categories, other_reason, comment,
	rating, status, reviewer_id, approved_at, rejected_at, deleted_at, created_at, updated_at`

func (s *submissionStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE id = ?`, submissionColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Submission{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (s *submissionStore) MarkApproved(ctx context.Context, id, reviewerID string) error {
	query := `
		UPDATE submissions
		SET status = ?, approved_at = ?, rejected_at = NULL, reviewer_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`
	return s.transition(ctx, query, string(domain.StatusApproved), s.now().UTC(), reviewerID, s.now().UTC(), id)
}

func (s *submissionStore) MarkRejected(ctx context.Context, id, reviewerID string) error {
	query := `
		UPDATE submissions
		SET status = ?, rejected_at = ?, approved_at = NULL, reviewer_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`
	return s.transition(ctx, query, string(domain.StatusRejected), s.now().UTC(), reviewerID, s.now().UTC(), id)
}

func (s *submissionStore) MarkDeleted(ctx context.Context, id, reviewerID string) error {
	now := s.now().UTC()
	query := `
		UPDATE submissions
		SET deleted_at = ?, status = ?, rejected_at = ?, approved_at = NULL, reviewer_id = ?, updated_at = ?
		WHERE id = ?`
	return s.transition(ctx, query, now, string(domain.StatusRejected), now, reviewerID, now, id)
}

func (s *submissionStore) transition(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertSubmission keeps one submission per (reporter, restaurant). A
// resubmission replaces the content and resets the review state to
// pending; created_at keeps the original timeline, so trend buckets do not
// move on edits.
func (s *submissionStore) UpsertSubmission(ctx context.Context, draft store.SubmissionDraft) (domain.Submission, error) {
	categories, err := json.Marshal(draft.Categories)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("encode categories: %w", err)
	}

	now := s.now().UTC()
	query := `
		INSERT INTO submissions (
			id, restaurant_id, reporter_id, categories, other_reason, comment,
			rating, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (reporter_id, restaurant_id) DO UPDATE SET
			categories = excluded.categories,
			other_reason = excluded.other_reason,
			comment = excluded.comment,
			rating = excluded.rating,
			status = excluded.status,
			reviewer_id = NULL,
			approved_at = NULL,
			rejected_at = NULL,
			deleted_at = NULL,
			updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(),
		draft.RestaurantID,
		draft.ReporterID,
		string(categories),
		nullString(draft.OtherReason),
		nullString(draft.Comment),
		nullInt(draft.Rating),
		string(domain.StatusPending),
		now,
		now,
	)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("upsert submission: %w", err)
	}

	return s.getByReporter(ctx, draft.ReporterID, draft.RestaurantID)
}

func (s *submissionStore) WithdrawSubmission(ctx context.Context, reporterID, restaurantID string) (domain.Submission, error) {
	previous, err := s.getByReporter(ctx, reporterID, restaurantID)
	if err != nil {
		return domain.Submission{}, err
	}
	if previous.DeletedAt != nil {
		return domain.Submission{}, domain.ErrNotFound
	}

	now := s.now().UTC()
	query := `
		UPDATE submissions
		SET deleted_at = ?, status = ?, rejected_at = ?, updated_at = ?
		WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, now, string(domain.StatusRejected), now, now, previous.ID); err != nil {
		return domain.Submission{}, fmt.Errorf("withdraw submission: %w", err)
	}

	return previous, nil
}

func (s *submissionStore) RecordModeration(ctx context.Context, entry store.ModerationLogEntry) error {
	query := `
		INSERT INTO moderation_log (id, user_id, input_type, content, flagged, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), entry.UserID, entry.InputType, entry.Content, entry.Flagged, entry.Model, s.now().UTC())
	if err != nil {
		return fmt.Errorf("record moderation: %w", err)
	}
	return nil
}

// FetchEligibleReports returns the approved, non-deleted reports for one
// restaurant. Eligibility lives in this query so the scoring engine never
// has to re-check it.
func (s *submissionStore) FetchEligibleReports(ctx context.Context, restaurantID string) ([]domain.Report, error) {
	query := `
		SELECT reporter_id, categories, rating, created_at
		FROM submissions
		WHERE restaurant_id = ? AND status = ? AND deleted_at IS NULL`
	rows, err := s.db.QueryContext(ctx, query, restaurantID, string(domain.StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("query eligible reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.Report, 0)
	for rows.Next() {
		var (
			reporterID string
			rawCats    []byte
			rating     sql.NullInt64
			createdAt  time.Time
		)
		if err := rows.Scan(&reporterID, &rawCats, &rating, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}

		var categories []string
		if err := json.Unmarshal(rawCats, &categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}

		report := domain.Report{
			ReporterID: reporterID,
			Categories: categories,
			OccurredAt: createdAt,
		}
		if rating.Valid {
			r := int(rating.Int64)
			report.Rating = &r
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// DailyCounts buckets non-deleted submissions of any status by UTC day,
// feeding the platform-wide spike detector.
func (s *submissionStore) DailyCounts(ctx context.Context, since time.Time) ([]store.DailyCount, error) {
	query := `
		SELECT created_at FROM submissions
		WHERE deleted_at IS NULL AND created_at >= ?`
	rows, err := s.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var createdAt time.Time
		if err := rows.Scan(&createdAt); err != nil {
			return nil, fmt.Errorf("scan created_at: %w", err)
		}
		counts[createdAt.UTC().Format("2006-01-02")]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	days := make([]store.DailyCount, 0, len(counts))
	for date, count := range counts {
		days = append(days, store.DailyCount{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (s *submissionStore) getByReporter(ctx context.Context, reporterID, restaurantID string) (domain.Submission, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM submissions WHERE reporter_id = ? AND restaurant_id = ?`, submissionColumns)
	row := s.db.QueryRowContext(ctx, query, reporterID, restaurantID)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Submission{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("get submission by reporter: %w", err)
	}
	return sub, nil
}

func scanSubmission(row *sql.Row) (domain.Submission, error) {
	var (
		rec     store.Submission
		rawCats []byte
	)
	err := row.Scan(
		&rec.ID, &rec.RestaurantID, &rec.ReporterID, &rawCats, &rec.OtherReason, &rec.Comment,
		&rec.Rating, &rec.Status, &rec.ReviewerID, &rec.ApprovedAt, &rec.RejectedAt, &rec.DeletedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.Submission{}, err
	}

	if err := json.Unmarshal(rawCats, &rec.Categories); err != nil {
		return domain.Submission{}, fmt.Errorf("decode categories: %w", err)
	}
	return adapters.MapStoreSubmissionToDomain(rec), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
