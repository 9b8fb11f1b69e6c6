package commands

import (
	"time"

	"promptline/domain/core/entities"
	"promptline/pkg/utils"
)

// AppendRevisionCommand adds a new prompt revision to a subject's
// lineage. ParentID is nil for a root revision. CreatedAt defaults to
// now when zero; explicit timestamps support imports and backfills.
type AppendRevisionCommand struct {
	UserID    string    `json:"user_id" validate:"required"`
	SubjectID string    `json:"subject_id" validate:"required,uuid"`
	Text      string    `json:"text" validate:"required"`
	ParentID  *string   `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	// Result is populated by the handler on success.
	Result *entities.Revision `json:"-"`
}

// Validate checks the command's fields
func (c *AppendRevisionCommand) Validate() error {
	return utils.ValidateStruct(c)
}
