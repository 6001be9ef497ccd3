package scoring

import (
	"math"
	"sort"

	"github.com/sarafti/sarafti/pkg/models/domain"
)

const (
	// priorRate and priorWeight blend every aggregate with 8 imaginary
	// reports of negativity 0.5, so one or two harsh reports cannot
	// produce an extreme score for a sparsely reported restaurant.
	priorRate   = 0.5
	priorWeight = 8.0

	// confidenceScale sets how many distinct reporters it takes for the
	// confidence discount to approach 1.
	confidenceScale = 12.0

	maxTopIssues = 4
)

// Aggregate recomputes the full public metric set from the eligible report
// set of one restaurant. It is pure and order-independent over the input;
// an empty input yields the zero result rather than an error.
func Aggregate(reports []domain.Report) domain.AggregateResult {
	n := len(reports)
	if n == 0 {
		return domain.AggregateResult{TopIssues: []domain.TopIssue{}}
	}

	var negativeMass float64
	reporters := make(map[string]struct{}, n)
	var ratingSum float64
	var ratingCount int

	for _, r := range reports {
		negativeMass += Negativity(r)
		reporters[r.ReporterID] = struct{}{}
		if r.Rating != nil {
			ratingSum += float64(*r.Rating)
			ratingCount++
		}
	}

	adjustedRate := (negativeMass + priorRate*priorWeight) / (float64(n) + priorWeight)
	confidence := 1 - math.Exp(-float64(len(reporters))/confidenceScale)
	rate := adjustedRate * confidence

	result := domain.AggregateResult{
		Score:                 round2(rate * 100),
		CommunityNegativeRate: rate,
		TotalSubmissions:      n,
		TopIssues:             topIssues(reports),
	}

	if ratingCount > 0 {
		avg := round2(ratingSum / float64(ratingCount))
		result.AverageRating = &avg
	}

	return result
}

// topIssues tallies every category occurrence across all reports, so a
// report with two categories contributes to both tallies and the
// percentage base is occurrences, not reports. Ties keep first-encountered
// order via the stable sort.
func topIssues(reports []domain.Report) []domain.TopIssue {
	counts := make(map[string]int)
	var order []string
	var total int

	for _, r := range reports {
		for _, c := range r.Categories {
			if _, seen := counts[c]; !seen {
				order = append(order, c)
			}
			counts[c]++
			total++
		}
	}

	if total == 0 {
		return []domain.TopIssue{}
	}

	issues := make([]domain.TopIssue, 0, len(order))
	for _, c := range order {
		issues = append(issues, domain.TopIssue{
			Category:   c,
			Count:      counts[c],
			Percentage: int(math.Round(float64(counts[c]) / float64(total) * 100)),
		})
	}

	// Stable sort keeps first-encountered order for equal counts.
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Count > issues[j].Count
	})

	if len(issues) > maxTopIssues {
		issues = issues[:maxTopIssues]
	}
	return issues
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
