package domain

// TopIssue is one entry of a restaurant's ranked issue distribution.
// Percentage is computed against total category occurrences, not total
// submissions, so multi-category submissions widen the base.
type TopIssue struct {
	Category   string
	Count      int
	Percentage int
}

// AggregateResult is the full recomputed public metric set for one
// restaurant. It is a pure function of the eligible report set; the
// orchestrator overwrites the stored copy wholesale on every recomputation.
type AggregateResult struct {
	Score                 float64 // [0,100], 2 decimals
	CommunityNegativeRate float64 // [0,1], unscaled form of Score
	TotalSubmissions      int
	AverageRating         *float64 // [1,5], 2 decimals; nil when no rating given
	TopIssues             []TopIssue
}

// TrendPoint is one calendar-day bucket of the trend series. Rate carries
// the bucket's score on the 0-100 scale.
type TrendPoint struct {
	Date        string // UTC date, YYYY-MM-DD
	Rate        float64
	Submissions int
}

// CountPoint is a daily submission count fed to the spike detector.
type CountPoint struct {
	Date  string
	Count int
}

// SpikeReport flags the days whose submission count exceeds the rolling
// mean + 2 stddev threshold over the observed window.
type SpikeReport struct {
	Threshold float64
	Series    []CountPoint
	Spikes    []CountPoint
}
