package adapters

import (
	"github.com/sarafti/sarafti/pkg/models/api"
	"github.com/sarafti/sarafti/pkg/models/domain"
	"github.com/sarafti/sarafti/pkg/models/store"
)

func MapStoreSubmissionToDomain(s store.Submission) domain.Submission {
	sub := domain.Submission{
		ID:           s.ID,
		RestaurantID: s.RestaurantID,
		ReporterID:   s.ReporterID,
		Categories:   s.Categories,
		Status:       domain.SubmissionStatus(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.OtherReason.Valid {
		sub.OtherReason = s.OtherReason.String
	}
	if s.Comment.Valid {
		sub.Comment = s.Comment.String
	}
	if s.Rating.Valid {
		rating := int(s.Rating.Int64)
		sub.Rating = &rating
	}
	if s.ReviewerID.Valid {
		sub.ReviewerID = s.ReviewerID.String
	}
	if s.ApprovedAt.Valid {
		t := s.ApprovedAt.Time
		sub.ApprovedAt = &t
	}
	if s.RejectedAt.Valid {
		t := s.RejectedAt.Time
		sub.RejectedAt = &t
	}
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		sub.DeletedAt = &t
	}

	return sub
}

func MapDailyCountsStoreToDomain(counts []store.DailyCount) []domain.CountPoint {
	points := make([]domain.CountPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, domain.CountPoint{Date: c.Date, Count: c.Count})
	}
	return points
}

func MapSubmissionDomainToApi(s domain.Submission) api.SubmissionResponse {
	return api.SubmissionResponse{
		ID:     s.ID,
		Status: string(s.Status),
	}
}
