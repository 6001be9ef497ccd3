package trend

import (
	"testing"
	"time"

	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/services/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuild(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 12, 23, 59, 0, 0, time.UTC)

	t.Run("single-day series matches the aggregate score exactly", func(t *testing.T) {
		reports := []domain.Report{
			{ReporterID: "a", Categories: []string{domain.CategoryHygiene}, Rating: intPtr(1), OccurredAt: day1},
			{ReporterID: "b", Categories: []string{domain.CategoryOverpriced}, Rating: intPtr(3), OccurredAt: day1.Add(4 * time.Hour)},
		}

		points := Build(reports)
		require.Len(t, points, 1)
		assert.Equal(t, "2025-03-10", points[0].Date)
		assert.Equal(t, scoring.Aggregate(reports).Score, points[0].Rate)
		assert.Equal(t, 2, points[0].Submissions)
	})

	t.Run("buckets are independent and ordered ascending", func(t *testing.T) {
		reports := []domain.Report{
			{ReporterID: "a", Categories: []string{domain.CategoryHygiene}, OccurredAt: day2},
			{ReporterID: "b", Categories: []string{domain.CategoryOther}, OccurredAt: day1},
			{ReporterID: "c", Categories: []string{domain.CategoryOther}, OccurredAt: day1},
		}

		points := Build(reports)
		require.Len(t, points, 2)

		assert.Equal(t, "2025-03-10", points[0].Date)
		assert.Equal(t, 2, points[0].Submissions)
		assert.Equal(t, "2025-03-12", points[1].Date)
		assert.Equal(t, 1, points[1].Submissions)

		// Each bucket is its own aggregation, not a running total.
		day2Only := []domain.Report{reports[0]}
		assert.Equal(t, scoring.Aggregate(day2Only).Score, points[1].Rate)
	})

	t.Run("bucketing truncates to the UTC calendar date", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		reports := []domain.Report{
			// 23:00 EST on March 10 is 04:00 UTC on March 11.
			{ReporterID: "a", Categories: []string{domain.CategoryOther}, OccurredAt: time.Date(2025, 3, 10, 23, 0, 0, 0, est)},
		}

		points := Build(reports)
		require.Len(t, points, 1)
		assert.Equal(t, "2025-03-11", points[0].Date)
	})

	t.Run("empty input yields an empty series", func(t *testing.T) {
		assert.Empty(t, Build(nil))
	})

	t.Run("days without reports are absent, not zero-filled", func(t *testing.T) {
		reports := []domain.Report{
			{ReporterID: "a", Categories: []string{domain.CategoryOther}, OccurredAt: day1},
			{ReporterID: "b", Categories: []string{domain.CategoryOther}, OccurredAt: day1.AddDate(0, 0, 5)},
		}

		points := Build(reports)
		require.Len(t, points, 2)
	})
}
