package scoring

import (
	"math"

	"github.com/sarafti/sarafti/pkg/models/domain"
)

// Severity weights per structured category. Categories missing from the
// table fall back to a neutral 0.5 rather than failing.
var categoryWeights = map[string]float64{
	domain.CategoryHygiene:     1.0,
	domain.CategoryFoodQuality: 0.9,
	domain.CategoryBadService:  0.8,
	domain.CategoryWaitingTime: 0.65,
	domain.CategoryOverpriced:  0.55,
	domain.CategoryOther:       0.6,
}

const (
	unknownCategoryWeight = 0.5
	noCategoriesWeight    = 0.6
	noRatingWeight        = 0.75
)

// Negativity maps one report to its negative signal in [0,1].
//
// The category weight is the mean severity of the selected categories and
// the rating weight maps 1..5 stars onto 1.0..0.2. The result takes the
// more damning of the two, so a single severe category or a single low
// rating each push the value high on their own. Clamping guards against
// weight-table edits drifting out of range.
func Negativity(r domain.Report) float64 {
	categoryWeight := noCategoriesWeight
	if len(r.Categories) > 0 {
		var sum float64
		for _, c := range r.Categories {
			w, ok := categoryWeights[c]
			if !ok {
				w = unknownCategoryWeight
			}
			sum += w
		}
		categoryWeight = sum / float64(len(r.Categories))
	}

	ratingWeight := noRatingWeight
	if r.Rating != nil {
		ratingWeight = float64(6-*r.Rating) / 5.0
	}

	return clamp01(math.Max(categoryWeight, ratingWeight))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
