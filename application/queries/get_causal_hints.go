package queries

import (
	"time"

	"promptline/domain/temporal"
	pkgerrors "promptline/pkg/errors"
)

// GetCausalHintsQuery asks which kinds of edits coincided with score
// gains for a subject, optionally restricted to a window. The answer
// is correlational, never causal proof.
type GetCausalHintsQuery struct {
	UserID    string     `json:"user_id"`
	SubjectID string     `json:"subject_id"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Validate validates the query
func (q GetCausalHintsQuery) Validate() error {
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

// GetCausalHintsResult ranks change types by average score movement.
type GetCausalHintsResult struct {
	SubjectID string                `json:"subject_id"`
	Hints     []temporal.CausalHint `json:"hints"`
	Note      string                `json:"note"`
}

// HintDisclaimer accompanies every hint response.
const HintDisclaimer = "hints reflect correlation in this subject's history, not causation"
