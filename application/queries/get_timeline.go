package queries

import (
	"time"

	pkgerrors "promptline/pkg/errors"
)

// GetTimelineQuery asks for a subject's revisions ordered by creation
// time, optionally restricted to a window.
type GetTimelineQuery struct {
	UserID    string     `json:"user_id"`
	SubjectID string     `json:"subject_id"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Validate validates the query
func (q GetTimelineQuery) Validate() error {
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

// ScoreCardView is the rubric breakdown attached to a revision.
type ScoreCardView struct {
	Clarity       float64 `json:"clarity"`
	Specificity   float64 `json:"specificity"`
	Actionability float64 `json:"actionability"`
	Structure     float64 `json:"structure"`
	ContextUse    float64 `json:"context_use"`
}

// RevisionView is the read model for a single revision.
type RevisionView struct {
	ID              string         `json:"id"`
	ParentID        *string        `json:"parent_id,omitempty"`
	SequenceNo      int            `json:"sequence_no"`
	Text            string         `json:"text"`
	CreatedAt       time.Time      `json:"created_at"`
	ChangeType      string         `json:"change_type"`
	ChangeMagnitude float64        `json:"change_magnitude"`
	Score           *float64       `json:"score,omitempty"`
	ScoreCard       *ScoreCardView `json:"score_card,omitempty"`
}

// GetTimelineResult is the timeline read model. RevisionCount and
// LatestScore summarize the full lineage even when a window narrows
// the revision list.
type GetTimelineResult struct {
	SubjectID     string         `json:"subject_id"`
	Revisions     []RevisionView `json:"revisions"`
	RevisionCount int            `json:"revision_count"`
	LatestScore   *float64       `json:"latest_score,omitempty"`
	BestHeadID    *string        `json:"best_head_id,omitempty"`
}
