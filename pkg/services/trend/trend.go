package trend

import (
	"sort"
	"time"

	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/services/scoring"
)

const dateLayout = "2006-01-02"

// Build buckets reports by the UTC calendar date of OccurredAt and runs
// the aggregator over each bucket independently. Days without reports are
// absent from the result; callers wanting a dense series zero-fill gaps
// themselves. Output is ordered ascending by date.
func Build(reports []domain.Report) []domain.TrendPoint {
	buckets := make(map[string][]domain.Report)
	for _, r := range reports {
		key := r.OccurredAt.UTC().Format(dateLayout)
		buckets[key] = append(buckets[key], r)
	}

	points := make([]domain.TrendPoint, 0, len(buckets))
	for date, dayReports := range buckets {
		result := scoring.Aggregate(dayReports)
		points = append(points, domain.TrendPoint{
			Date:        date,
			Rate:        result.Score,
			Submissions: len(dayReports),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}

// DayKey formats a timestamp as its UTC bucket date.
func DayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
