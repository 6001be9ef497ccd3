package trend

import (
	"math"

	"github.com/sarafti/sarafti/pkg/models/domain"
)

// DetectSpikes flags the days whose count strictly exceeds
// mean + 2 * population stddev over the observed window. It is a simple
// non-adaptive heuristic meant for manual investigation, not an enforcement
// trigger; an empty series yields threshold 0 and no spikes.
func DetectSpikes(series []domain.CountPoint) domain.SpikeReport {
	report := domain.SpikeReport{
		Series: series,
		Spikes: []domain.CountPoint{},
	}

	if len(series) == 0 {
		return report
	}

	var sum float64
	for _, p := range series {
		sum += float64(p.Count)
	}
	mean := sum / float64(len(series))

	var variance float64
	for _, p := range series {
		d := float64(p.Count) - mean
		variance += d * d
	}
	variance /= float64(len(series))

	report.Threshold = mean + 2*math.Sqrt(variance)

	for _, p := range series {
		if float64(p.Count) > report.Threshold {
			report.Spikes = append(report.Spikes, p)
		}
	}

	return report
}
