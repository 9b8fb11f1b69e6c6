package commands

import (
	"time"

	"promptline/pkg/utils"
)

// GenerateSyntheticCommand seeds a subject with a generated revision
// history for demos and trend-algorithm testing. The same seed always
// produces the same history.
type GenerateSyntheticCommand struct {
	UserID         string    `json:"user_id" validate:"required"`
	SubjectID      string    `json:"subject_id" validate:"required,uuid"`
	Days           int       `json:"days" validate:"required,min=1,max=365"`
	VersionsPerDay int       `json:"versions_per_day" validate:"required,min=1,max=100"`
	Trend          string    `json:"trend" validate:"required,oneof=improving degrading oscillating"`
	Seed           int64     `json:"seed"`
	Start          time.Time `json:"start,omitempty"`

	// Result holds the number of revisions created.
	Result int `json:"-"`
}

// Validate checks the command's fields
func (c *GenerateSyntheticCommand) Validate() error {
	return utils.ValidateStruct(c)
}
