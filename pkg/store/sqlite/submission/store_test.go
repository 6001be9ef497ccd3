package submission

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
	"github.com/sarafti/sarafti/pkg/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqlite.NewDB(sqlite.Settings{DbPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)

	return &fixture{db: db, store: s}
}

func (f *fixture) insertRestaurant(t *testing.T, id string) {
	_, err := f.db.Exec(
		`INSERT INTO restaurants (id, name, city, cuisine, soft_deleted, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		id, "Testaurant "+id, "Tbilisi", "Georgian", time.Now().UTC())
	require.NoError(t, err)
}

func (f *fixture) submit(t *testing.T, reporterID, restaurantID string, categories []string, rating *int) domain.Submission {
	sub, err := f.store.UpsertSubmission(context.Background(), store.SubmissionDraft{
		RestaurantID: restaurantID,
		ReporterID:   reporterID,
		Categories:   categories,
		Rating:       rating,
	})
	require.NoError(t, err)
	return sub
}

func intPtr(v int) *int { return &v }

func TestSubmissionStore_Upsert(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insertRestaurant(t, "rest-1")

	t.Run("insert creates a pending submission", func(t *testing.T) {
		sub := f.submit(t, "user-1", "rest-1", []string{domain.CategoryHygiene}, intPtr(2))

		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, domain.StatusPending, sub.Status)
		assert.Equal(t, []string{domain.CategoryHygiene}, sub.Categories)
		require.NotNil(t, sub.Rating)
		assert.Equal(t, 2, *sub.Rating)
	})

	t.Run("resubmission replaces content and resets review state", func(t *testing.T) {
		first := f.submit(t, "user-2", "rest-1", []string{domain.CategoryOverpriced}, nil)
		require.NoError(t, f.store.MarkApproved(ctx, first.ID, "admin"))

		second := f.submit(t, "user-2", "rest-1", []string{domain.CategoryBadService}, intPtr(1))

		assert.Equal(t, first.ID, second.ID, "upsert must keep one row per reporter+restaurant")
		assert.Equal(t, domain.StatusPending, second.Status)
		assert.Nil(t, second.ApprovedAt)
		assert.Empty(t, second.ReviewerID)
		assert.Equal(t, []string{domain.CategoryBadService}, second.Categories)
		// created_at keeps the original timeline.
		assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Second)
	})
}

func TestSubmissionStore_Transitions(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insertRestaurant(t, "rest-1")

	t.Run("approve then fetch reflects review fields", func(t *testing.T) {
		sub := f.submit(t, "user-1", "rest-1", []string{domain.CategoryHygiene}, nil)
		require.NoError(t, f.store.MarkApproved(ctx, sub.ID, "admin-1"))

		got, err := f.store.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, got.Status)
		assert.Equal(t, "admin-1", got.ReviewerID)
		assert.NotNil(t, got.ApprovedAt)
		assert.Nil(t, got.RejectedAt)
		assert.True(t, got.Eligible())
	})

	t.Run("reject clears approval", func(t *testing.T) {
		sub := f.submit(t, "user-2", "rest-1", []string{domain.CategoryOther}, nil)
		require.NoError(t, f.store.MarkApproved(ctx, sub.ID, "admin-1"))
		require.NoError(t, f.store.MarkRejected(ctx, sub.ID, "admin-2"))

		got, err := f.store.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, got.Status)
		assert.Nil(t, got.ApprovedAt)
		assert.NotNil(t, got.RejectedAt)
		assert.False(t, got.Eligible())
	})

	t.Run("delete hides the submission from review transitions", func(t *testing.T) {
		sub := f.submit(t, "user-3", "rest-1", []string{domain.CategoryOther}, nil)
		require.NoError(t, f.store.MarkDeleted(ctx, sub.ID, "admin-1"))

		got, err := f.store.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.DeletedAt)

		// A deleted row no longer matches the guarded transitions.
		assert.ErrorIs(t, f.store.MarkApproved(ctx, sub.ID, "admin-1"), domain.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, f.store.MarkApproved(ctx, "nope", "admin"), domain.ErrNotFound)

		_, err := f.store.GetSubmission(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubmissionStore_FetchEligibleReports(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insertRestaurant(t, "rest-1")
	f.insertRestaurant(t, "rest-2")

	approved := f.submit(t, "user-1", "rest-1", []string{domain.CategoryHygiene, domain.CategoryBadService}, intPtr(1))
	require.NoError(t, f.store.MarkApproved(ctx, approved.ID, "admin"))

	f.submit(t, "user-2", "rest-1", []string{domain.CategoryOther}, nil)

	deleted := f.submit(t, "user-3", "rest-1", []string{domain.CategoryOther}, nil)
	require.NoError(t, f.store.MarkApproved(ctx, deleted.ID, "admin"))
	require.NoError(t, f.store.MarkDeleted(ctx, deleted.ID, "admin"))

	other := f.submit(t, "user-4", "rest-2", []string{domain.CategoryOther}, nil)
	require.NoError(t, f.store.MarkApproved(ctx, other.ID, "admin"))

	reports, err := f.store.FetchEligibleReports(ctx, "rest-1")
	require.NoError(t, err)

	require.Len(t, reports, 1, "only approved, non-deleted reports of this restaurant")
	assert.Equal(t, "user-1", reports[0].ReporterID)
	assert.Equal(t, []string{domain.CategoryHygiene, domain.CategoryBadService}, reports[0].Categories)
	require.NotNil(t, reports[0].Rating)
	assert.Equal(t, 1, *reports[0].Rating)
	assert.False(t, reports[0].OccurredAt.IsZero())
}

func TestSubmissionStore_WithdrawSubmission(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insertRestaurant(t, "rest-1")

	sub := f.submit(t, "user-1", "rest-1", []string{domain.CategoryOther}, nil)
	require.NoError(t, f.store.MarkApproved(ctx, sub.ID, "admin"))

	previous, err := f.store.WithdrawSubmission(ctx, "user-1", "rest-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, previous.Status, "withdraw reports the pre-withdrawal state")

	got, err := f.store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)
	assert.Equal(t, domain.StatusRejected, got.Status)

	// Withdrawing twice finds nothing live.
	_, err = f.store.WithdrawSubmission(ctx, "user-1", "rest-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmissionStore_DailyCounts(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.insertRestaurant(t, "rest-1")

	for _, reporter := range []string{"a", "b", "c"} {
		f.submit(t, reporter, "rest-1", []string{domain.CategoryOther}, nil)
	}
	deleted := f.submit(t, "d", "rest-1", []string{domain.CategoryOther}, nil)
	require.NoError(t, f.store.MarkDeleted(ctx, deleted.ID, "admin"))

	counts, err := f.store.DailyCounts(ctx, time.Now().UTC().AddDate(0, 0, -14))
	require.NoError(t, err)

	require.Len(t, counts, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), counts[0].Date)
	assert.Equal(t, 3, counts[0].Count, "deleted submissions are excluded")
}

func TestSubmissionStore_RecordModeration(t *testing.T) {
	f := setupFixture(t)

	err := f.store.RecordModeration(context.Background(), store.ModerationLogEntry{
		UserID:    "user-1",
		InputType: "COMMENT",
		Content:   "some text",
		Flagged:   true,
		Model:     "test-model",
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM moderation_log WHERE flagged = 1`).Scan(&count))
	assert.Equal(t, 1, count)
}
