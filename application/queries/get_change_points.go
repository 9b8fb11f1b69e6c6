package queries

import (
	"time"

	"promptline/domain/temporal"
	pkgerrors "promptline/pkg/errors"
)

// GetChangePointsQuery asks for abrupt score shifts in a subject's
// history, optionally restricted to a window. Threshold is a fraction
// of the score range; zero means use the configured default.
type GetChangePointsQuery struct {
	UserID    string     `json:"user_id"`
	SubjectID string     `json:"subject_id"`
	Threshold float64    `json:"threshold,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Validate validates the query
func (q GetChangePointsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("userID is required", nil)
	}
	if q.SubjectID == "" {
		return pkgerrors.NewValidationError("subjectID is required", nil)
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return pkgerrors.NewValidationError("threshold must be in [0, 1]", nil)
	}
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return pkgerrors.NewValidationError("end must not be before start", nil)
	}
	return nil
}

// GetChangePointsResult lists detected score jumps.
type GetChangePointsResult struct {
	SubjectID    string                 `json:"subject_id"`
	Threshold    float64                `json:"threshold"`
	ChangePoints []temporal.ChangePoint `json:"change_points"`
}
