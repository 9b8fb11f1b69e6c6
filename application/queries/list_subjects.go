package queries

import (
	"time"

	pkgerrors "promptline/pkg/errors"
)

// ListSubjectsQuery asks for every subject a user owns.
type ListSubjectsQuery struct {
	UserID string `json:"user_id"`
}

// Validate validates the query
func (q ListSubjectsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("userID is required", nil)
	}
	return nil
}

// SubjectView is the read model for a subject.
type SubjectView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListSubjectsResult lists the user's subjects.
type ListSubjectsResult struct {
	Subjects []SubjectView `json:"subjects"`
}

// GetRevisionQuery asks for one revision by ID.
type GetRevisionQuery struct {
	UserID     string `json:"user_id"`
	SubjectID  string `json:"subject_id"`
	RevisionID string `json:"revision_id"`
}

// Validate validates the query
func (q GetRevisionQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("userID is required", nil)
	}
	if q.SubjectID == "" {
		return pkgerrors.NewValidationError("subjectID is required", nil)
	}
	if q.RevisionID == "" {
		return pkgerrors.NewValidationError("revisionID is required", nil)
	}
	return nil
}
