package trend

import (
	"testing"

	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSpikes(t *testing.T) {
	t.Run("empty series yields zero threshold and no spikes", func(t *testing.T) {
		report := DetectSpikes(nil)
		assert.Zero(t, report.Threshold)
		assert.Empty(t, report.Spikes)
	})

	t.Run("flags counts above mean plus two stddev", func(t *testing.T) {
		series := []domain.CountPoint{
			{Date: "2025-03-01", Count: 1},
			{Date: "2025-03-02", Count: 1},
			{Date: "2025-03-03", Count: 1},
			{Date: "2025-03-04", Count: 1},
			{Date: "2025-03-05", Count: 1},
			{Date: "2025-03-06", Count: 1},
			{Date: "2025-03-07", Count: 1},
			{Date: "2025-03-08", Count: 1},
			{Date: "2025-03-09", Count: 1},
			{Date: "2025-03-10", Count: 20},
		}

		report := DetectSpikes(series)

		// mean 2.9, population stddev 5.7, threshold 14.3.
		assert.InDelta(t, 14.3, report.Threshold, 1e-9)
		require.Len(t, report.Spikes, 1)
		assert.Equal(t, "2025-03-10", report.Spikes[0].Date)
	})

	t.Run("adding a non-outlier point keeps existing spikes flagged", func(t *testing.T) {
		series := []domain.CountPoint{
			{Date: "2025-03-01", Count: 1}, {Date: "2025-03-02", Count: 1},
			{Date: "2025-03-03", Count: 1}, {Date: "2025-03-04", Count: 1},
			{Date: "2025-03-05", Count: 1}, {Date: "2025-03-06", Count: 1},
			{Date: "2025-03-07", Count: 1}, {Date: "2025-03-08", Count: 1},
			{Date: "2025-03-09", Count: 1}, {Date: "2025-03-10", Count: 20},
		}
		require.Len(t, DetectSpikes(series).Spikes, 1)

		extended := append(series, domain.CountPoint{Date: "2025-03-11", Count: 1})
		report := DetectSpikes(extended)
		require.Len(t, report.Spikes, 1)
		assert.Equal(t, "2025-03-10", report.Spikes[0].Date)
	})

	t.Run("equality with the threshold is not a spike", func(t *testing.T) {
		// A constant series has stddev 0: every count equals the
		// threshold and none exceed it.
		series := []domain.CountPoint{
			{Date: "2025-03-01", Count: 3},
			{Date: "2025-03-02", Count: 3},
			{Date: "2025-03-03", Count: 3},
		}

		report := DetectSpikes(series)
		assert.InDelta(t, 3.0, report.Threshold, 1e-9)
		assert.Empty(t, report.Spikes)
	})

	t.Run("population stddev divides by n", func(t *testing.T) {
		series := []domain.CountPoint{
			{Date: "2025-03-01", Count: 2},
			{Date: "2025-03-02", Count: 6},
		}

		// mean 4, population stddev 2 (sample stddev would be ~2.83).
		report := DetectSpikes(series)
		assert.InDelta(t, 8.0, report.Threshold, 1e-9)
	})
}
