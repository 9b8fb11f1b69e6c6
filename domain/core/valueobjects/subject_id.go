package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// SubjectID identifies the prompt whose revision history is tracked.
// All revisions under one subject form one lineage.
type SubjectID struct {
	value string
}

// NewSubjectID creates a new random SubjectID
func NewSubjectID() SubjectID {
	return SubjectID{value: uuid.New().String()}
}

// NewSubjectIDFromString creates a SubjectID from an existing string
func NewSubjectIDFromString(id string) (SubjectID, error) {
	if id == "" {
		return SubjectID{}, errors.New("subject ID cannot be empty")
	}
	if !isValidUUID(id) {
		return SubjectID{}, errors.New("subject ID must be a valid UUID")
	}
	return SubjectID{value: id}, nil
}

// String returns the string representation of the SubjectID
func (id SubjectID) String() string {
	return id.value
}

// Equals checks if two SubjectIDs are equal
func (id SubjectID) Equals(other SubjectID) bool {
	return id.value == other.value
}

// IsZero checks if the SubjectID is the zero value
func (id SubjectID) IsZero() bool {
	return id.value == ""
}
