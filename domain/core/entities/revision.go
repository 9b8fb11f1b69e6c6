package entities

import (
	"time"

	"promptline/domain/config"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// Revision is a single immutable version of a subject's prompt text.
// Once appended to a lineage its identity, parent link, and timestamps
// never change; only the judge score may be attached after the fact.
type Revision struct {
	id              valueobjects.RevisionID
	subjectID       valueobjects.SubjectID
	sequenceNo      int
	text            valueobjects.PromptText
	parentID        *valueobjects.RevisionID
	createdAt       time.Time
	changeType      valueobjects.ChangeType
	changeMagnitude float64
	score           *float64
	scoreCard       *valueobjects.ScoreCard
}

// NewRevision creates a revision with a fresh identity. Change metadata
// is computed by the caller (the lineage aggregate owns classification).
func NewRevision(
	subjectID valueobjects.SubjectID,
	sequenceNo int,
	text valueobjects.PromptText,
	parentID *valueobjects.RevisionID,
	createdAt time.Time,
	changeType valueobjects.ChangeType,
	changeMagnitude float64,
) (*Revision, error) {
	if subjectID.IsZero() {
		return nil, pkgerrors.NewValidationError("subject ID is required", nil)
	}
	if sequenceNo < 1 {
		return nil, pkgerrors.NewValidationError("sequence number must be positive", map[string]interface{}{
			"sequence_no": sequenceNo,
		})
	}
	if text.IsEmpty() {
		return nil, pkgerrors.NewValidationError("prompt text is required", nil)
	}
	if !changeType.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid change type", map[string]interface{}{
			"change_type": changeType.String(),
		})
	}
	if changeMagnitude < 0 || changeMagnitude > 1 {
		return nil, pkgerrors.NewValidationError("change magnitude must be in [0, 1]", map[string]interface{}{
			"change_magnitude": changeMagnitude,
		})
	}

	return &Revision{
		id:              valueobjects.NewRevisionID(),
		subjectID:       subjectID,
		sequenceNo:      sequenceNo,
		text:            text,
		parentID:        parentID,
		createdAt:       createdAt.UTC(),
		changeType:      changeType,
		changeMagnitude: changeMagnitude,
	}, nil
}

// ReconstructRevision rebuilds a revision from persistence without
// re-running creation validation.
func ReconstructRevision(
	id valueobjects.RevisionID,
	subjectID valueobjects.SubjectID,
	sequenceNo int,
	text valueobjects.PromptText,
	parentID *valueobjects.RevisionID,
	createdAt time.Time,
	changeType valueobjects.ChangeType,
	changeMagnitude float64,
	score *float64,
	scoreCard *valueobjects.ScoreCard,
) *Revision {
	return &Revision{
		id:              id,
		subjectID:       subjectID,
		sequenceNo:      sequenceNo,
		text:            text,
		parentID:        parentID,
		createdAt:       createdAt.UTC(),
		changeType:      changeType,
		changeMagnitude: changeMagnitude,
		score:           score,
		scoreCard:       scoreCard,
	}
}

func (r *Revision) ID() valueobjects.RevisionID       { return r.id }
func (r *Revision) SubjectID() valueobjects.SubjectID { return r.subjectID }
func (r *Revision) SequenceNo() int                   { return r.sequenceNo }
func (r *Revision) Text() valueobjects.PromptText     { return r.text }
func (r *Revision) CreatedAt() time.Time              { return r.createdAt }
func (r *Revision) ChangeType() valueobjects.ChangeType {
	return r.changeType
}
func (r *Revision) ChangeMagnitude() float64 { return r.changeMagnitude }

// ParentID returns the parent revision ID, or nil for a root revision.
func (r *Revision) ParentID() *valueobjects.RevisionID {
	if r.parentID == nil {
		return nil
	}
	cp := *r.parentID
	return &cp
}

// IsRoot reports whether this revision has no parent.
func (r *Revision) IsRoot() bool { return r.parentID == nil }

// Score returns the attached overall score, or nil if unscored.
func (r *Revision) Score() *float64 {
	if r.score == nil {
		return nil
	}
	cp := *r.score
	return &cp
}

// ScoreCard returns the attached rubric breakdown, or nil if unscored.
func (r *Revision) ScoreCard() *valueobjects.ScoreCard {
	if r.scoreCard == nil {
		return nil
	}
	cp := *r.scoreCard
	return &cp
}

// IsScored reports whether a judge score has been attached.
func (r *Revision) IsScored() bool { return r.score != nil }

// AttachScore records the rubric card and its derived overall score.
// Re-scoring an already scored revision is rejected.
func (r *Revision) AttachScore(card valueobjects.ScoreCard, cfg *config.DomainConfig) error {
	if r.score != nil {
		return pkgerrors.NewConflictError("revision already has a score attached")
	}
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	overall := card.Overall()
	if overall < cfg.MinScore || overall > cfg.MaxScore {
		return pkgerrors.NewValidationError("score out of range", map[string]interface{}{
			"score": overall,
			"min":   cfg.MinScore,
			"max":   cfg.MaxScore,
		})
	}
	r.score = &overall
	r.scoreCard = &card
	return nil
}
