package entities

import (
	"strings"
	"time"

	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

const maxSubjectNameLength = 200

// Subject is the thing whose prompt we iterate on: a task, an agent
// persona, a template slot. Revisions hang off a subject.
type Subject struct {
	id        valueobjects.SubjectID
	userID    string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewSubject creates a subject owned by the given user.
func NewSubject(userID, name string) (*Subject, error) {
	name = strings.TrimSpace(name)
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user ID is required", nil)
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("subject name is required", nil)
	}
	if len(name) > maxSubjectNameLength {
		return nil, pkgerrors.NewValidationError("subject name too long", map[string]interface{}{
			"max_length": maxSubjectNameLength,
		})
	}
	now := time.Now().UTC()
	return &Subject{
		id:        valueobjects.NewSubjectID(),
		userID:    userID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSubject rebuilds a subject from persistence.
func ReconstructSubject(id valueobjects.SubjectID, userID, name string, createdAt, updatedAt time.Time) *Subject {
	return &Subject{
		id:        id,
		userID:    userID,
		name:      name,
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
	}
}

func (s *Subject) ID() valueobjects.SubjectID { return s.id }
func (s *Subject) UserID() string             { return s.userID }
func (s *Subject) Name() string               { return s.name }
func (s *Subject) CreatedAt() time.Time       { return s.createdAt }
func (s *Subject) UpdatedAt() time.Time       { return s.updatedAt }

// IsOwnedBy reports whether the given user owns this subject.
func (s *Subject) IsOwnedBy(userID string) bool { return s.userID == userID }

// Rename updates the subject's display name.
func (s *Subject) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("subject name is required", nil)
	}
	if len(name) > maxSubjectNameLength {
		return pkgerrors.NewValidationError("subject name too long", map[string]interface{}{
			"max_length": maxSubjectNameLength,
		})
	}
	s.name = name
	s.updatedAt = time.Now().UTC()
	return nil
}
