package entities_test

import (
	"strings"
	"testing"

	"promptline/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject_Creation(t *testing.T) {
	subject, err := entities.NewSubject("user-123", "  onboarding email prompt  ")

	require.NoError(t, err)
	assert.False(t, subject.ID().IsZero())
	assert.Equal(t, "user-123", subject.UserID())
	assert.Equal(t, "onboarding email prompt", subject.Name())
	assert.True(t, subject.IsOwnedBy("user-123"))
	assert.False(t, subject.IsOwnedBy("user-456"))
}

func TestSubject_CreationValidation(t *testing.T) {
	_, err := entities.NewSubject("", "a name")
	assert.Error(t, err)

	_, err = entities.NewSubject("user-123", "   ")
	assert.Error(t, err)

	_, err = entities.NewSubject("user-123", strings.Repeat("x", 201))
	assert.Error(t, err)
}

func TestSubject_Rename(t *testing.T) {
	subject, err := entities.NewSubject("user-123", "old name")
	require.NoError(t, err)
	createdAt := subject.CreatedAt()

	err = subject.Rename("new name")

	require.NoError(t, err)
	assert.Equal(t, "new name", subject.Name())
	assert.Equal(t, createdAt, subject.CreatedAt())
	assert.False(t, subject.UpdatedAt().Before(createdAt))

	assert.Error(t, subject.Rename(""))
	assert.Equal(t, "new name", subject.Name())
}
