package queries

import (
	"time"

	pkgerrors "promptline/pkg/errors"
)

// GetEdgesQuery asks for a subject's scored parent->child transitions,
// optionally restricted to a window on the child revision. Only edges
// where both endpoints carry a score appear: a score delta needs both
// sides.
type GetEdgesQuery struct {
	UserID    string     `json:"user_id"`
	SubjectID string     `json:"subject_id"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Validate validates the query
func (q GetEdgesQuery) Validate() error {
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

// EdgeView is the read model for one scored transition.
type EdgeView struct {
	ParentID         string  `json:"parent_id"`
	ChildID          string  `json:"child_id"`
	ChangeType       string  `json:"change_type"`
	ScoreDelta       float64 `json:"score_delta"`
	TimeDeltaSeconds float64 `json:"time_delta_seconds"`
}

// GetEdgesResult is the scored-edge listing.
type GetEdgesResult struct {
	SubjectID string     `json:"subject_id"`
	Edges     []EdgeView `json:"edges"`
}
