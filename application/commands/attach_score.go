package commands

import (
	"promptline/domain/core/entities"
	"promptline/pkg/utils"
)

// AttachScoreCommand records a judge's rubric card on a revision. The
// overall score is the mean of the five dimensions, computed once here
// and frozen on the revision.
type AttachScoreCommand struct {
	UserID     string `json:"user_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required,uuid"`
	RevisionID string `json:"revision_id" validate:"required,uuid"`

	Clarity       float64 `json:"clarity" validate:"gte=0,lte=100"`
	Specificity   float64 `json:"specificity" validate:"gte=0,lte=100"`
	Actionability float64 `json:"actionability" validate:"gte=0,lte=100"`
	Structure     float64 `json:"structure" validate:"gte=0,lte=100"`
	ContextUse    float64 `json:"context_use" validate:"gte=0,lte=100"`

	// Result is populated by the handler on success.
	Result *entities.Revision `json:"-"`
}

// Validate checks the command's fields
func (c *AttachScoreCommand) Validate() error {
	return utils.ValidateStruct(c)
}
