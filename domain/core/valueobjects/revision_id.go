package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// RevisionID is a value object representing a unique revision identifier
// Value objects are immutable and have no identity beyond their value
type RevisionID struct {
	value string
}

// NewRevisionID creates a new random RevisionID
func NewRevisionID() RevisionID {
	return RevisionID{value: uuid.New().String()}
}

// NewRevisionIDFromString creates a RevisionID from an existing string
func NewRevisionIDFromString(id string) (RevisionID, error) {
	if id == "" {
		return RevisionID{}, errors.New("revision ID cannot be empty")
	}
	if !isValidUUID(id) {
		return RevisionID{}, errors.New("revision ID must be a valid UUID")
	}
	return RevisionID{value: id}, nil
}

// String returns the string representation of the RevisionID
func (id RevisionID) String() string {
	return id.value
}

// Equals checks if two RevisionIDs are equal
func (id RevisionID) Equals(other RevisionID) bool {
	return id.value == other.value
}

// IsZero checks if the RevisionID is the zero value
func (id RevisionID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id RevisionID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *RevisionID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("RevisionID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
