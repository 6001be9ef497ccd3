package adapters

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sarafti/sarafti/pkg/models/api"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
)

// topIssueRecord is the JSON shape of one top-issue entry in the
// restaurants.top_issues column.
type topIssueRecord struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

func MapAggregateDomainToStore(result domain.AggregateResult) (store.AggregateRecord, error) {
	issues := make([]topIssueRecord, 0, len(result.TopIssues))
	for _, issue := range result.TopIssues {
		issues = append(issues, topIssueRecord(issue))
	}

	raw, err := json.Marshal(issues)
	if err != nil {
		return store.AggregateRecord{}, fmt.Errorf("encode top issues: %w", err)
	}

	record := store.AggregateRecord{
		Score:                 result.Score,
		CommunityNegativeRate: result.CommunityNegativeRate,
		TotalSubmissions:      result.TotalSubmissions,
		TopIssuesJSON:         raw,
	}
	if result.AverageRating != nil {
		record.AverageRating = sql.NullFloat64{Float64: *result.AverageRating, Valid: true}
	}
	return record, nil
}

func MapTopIssuesJSONToDomain(raw []byte) ([]domain.TopIssue, error) {
	if len(raw) == 0 {
		return []domain.TopIssue{}, nil
	}

	var records []topIssueRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode top issues: %w", err)
	}

	issues := make([]domain.TopIssue, 0, len(records))
	for _, r := range records {
		issues = append(issues, domain.TopIssue(r))
	}
	return issues, nil
}

func MapRestaurantStoreToDomain(r store.Restaurant) (domain.Restaurant, error) {
	issues, err := MapTopIssuesJSONToDomain(r.TopIssuesJSON)
	if err != nil {
		return domain.Restaurant{}, err
	}

	restaurant := domain.Restaurant{
		ID:                    r.ID,
		Name:                  r.Name,
		City:                  r.City,
		Cuisine:               r.Cuisine,
		SoftDeleted:           r.SoftDeleted,
		CreatedAt:             r.CreatedAt,
		Score:                 r.Score,
		CommunityNegativeRate: r.CommunityNegativeRate,
		TotalSubmissions:      r.TotalSubmissions,
		TopIssues:             issues,
	}
	if r.Address.Valid {
		restaurant.Address = r.Address.String
	}
	if r.CreatedByID.Valid {
		restaurant.CreatedByID = r.CreatedByID.String
	}
	if r.AverageRating.Valid {
		avg := r.AverageRating.Float64
		restaurant.AverageRating = &avg
	}
	return restaurant, nil
}

func MapAggregateDomainToApi(result domain.AggregateResult) api.AggregateResult {
	return api.AggregateResult{
		Score:                 result.Score,
		CommunityNegativeRate: result.CommunityNegativeRate,
		TotalSubmissions:      result.TotalSubmissions,
		AverageRating:         result.AverageRating,
		TopIssues:             MapTopIssuesDomainToApi(result.TopIssues),
	}
}

func MapTopIssuesDomainToApi(issues []domain.TopIssue) []api.TopIssue {
	out := make([]api.TopIssue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, api.TopIssue(issue))
	}
	return out
}

func MapTrendDomainToApi(points []domain.TrendPoint) []api.TrendPoint {
	out := make([]api.TrendPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.TrendPoint(p))
	}
	return out
}

func MapSpikeReportDomainToApi(report domain.SpikeReport) api.SpikeReport {
	out := api.SpikeReport{
		Threshold: report.Threshold,
		Series:    make([]api.CountPoint, 0, len(report.Series)),
		Spikes:    make([]api.CountPoint, 0, len(report.Spikes)),
	}
	for _, p := range report.Series {
		out.Series = append(out.Series, api.CountPoint(p))
	}
	for _, p := range report.Spikes {
		out.Spikes = append(out.Spikes, api.CountPoint(p))
	}
	return out
}

func MapRestaurantDomainToApi(r domain.Restaurant) api.Restaurant {
	return api.Restaurant{
		ID:               r.ID,
		Name:             r.Name,
		City:             r.City,
		Cuisine:          r.Cuisine,
		Address:          r.Address,
		CreatedAt:        r.CreatedAt,
		Score:            r.Score,
		TotalSubmissions: r.TotalSubmissions,
		AverageRating:    r.AverageRating,
		TopIssues:        MapTopIssuesDomainToApi(r.TopIssues),
	}
}
