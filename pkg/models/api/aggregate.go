package api

// TopIssue is one ranked issue entry as served to clients.
type TopIssue struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type AggregateResult struct {
	Score                 float64    `json:"score"`
	CommunityNegativeRate float64    `json:"communityNegativeRate"`
	TotalSubmissions      int        `json:"totalSubmissions"`
	AverageRating         *float64   `json:"averageRating"`
	TopIssues             []TopIssue `json:"topIssues"`
}

type TrendPoint struct {
	Date        string  `json:"date"`
	Rate        float64 `json:"rate"`
	Submissions int     `json:"submissions"`
}

type CountPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type SpikeReport struct {
	Threshold float64      `json:"threshold"`
	Series    []CountPoint `json:"series"`
	Spikes    []CountPoint `json:"spikes"`
}
