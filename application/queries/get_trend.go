package queries

import (
	"time"

	"promptline/domain/temporal"
	pkgerrors "promptline/pkg/errors"
)

// GetTrendQuery asks for the score trend of a subject's history.
type GetTrendQuery struct {
	UserID    string     `json:"user_id"`
	SubjectID string     `json:"subject_id"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Validate validates the query
func (q GetTrendQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("userID is required", nil)
	}
	if q.SubjectID == "" {
		return pkgerrors.NewValidationError("subjectID is required", nil)
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return pkgerrors.NewValidationError("end must not be before start", nil)
	}
	return nil
}

// GetTrendResult bundles the fit, summary statistics, and revision
// velocity for one subject's scored history.
type GetTrendResult struct {
	SubjectID      string               `json:"subject_id"`
	Trend          temporal.TrendResult `json:"trend"`
	Statistics     temporal.Statistics  `json:"statistics"`
	VelocityPerDay float64              `json:"velocity_per_day"`
	BestHeadID     *string              `json:"best_head_id,omitempty"`
}
