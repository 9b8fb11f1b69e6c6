package commands

import (
	"promptline/domain/core/entities"
	"promptline/pkg/utils"
)

// CreateSubjectCommand registers a new subject to track revisions for.
type CreateSubjectCommand struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1,max=200"`

	// Result is populated by the handler on success.
	Result *entities.Subject `json:"-"`
}

// Validate checks the command's fields
func (c *CreateSubjectCommand) Validate() error {
	return utils.ValidateStruct(c)
}
