package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"promptline/domain/config"
	pkgerrors "promptline/pkg/errors"
)

// PromptText is a value object for a revision's full content. Revisions store
// whole text, never diffs, so reconstruction never chains patches.
type PromptText struct {
	body string
}

// NewPromptText creates prompt text with validation using default configuration
func NewPromptText(body string) (PromptText, error) {
	return NewPromptTextWithConfig(body, config.DefaultDomainConfig())
}

// NewPromptTextWithConfig creates prompt text with validation and configuration
func NewPromptTextWithConfig(body string, cfg *config.DomainConfig) (PromptText, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return PromptText{}, pkgerrors.NewValidationError("prompt text cannot be empty", nil)
	}

	if utf8.RuneCountInString(trimmed) > cfg.MaxPromptLength {
		return PromptText{}, fmt.Errorf("prompt text exceeds maximum length of %d characters", cfg.MaxPromptLength)
	}

	return PromptText{body: trimmed}, nil
}

// ReconstructPromptText restores text from storage without re-validation;
// stored values already passed validation when written.
func ReconstructPromptText(body string) PromptText {
	return PromptText{body: body}
}

// Body returns the full text
func (t PromptText) Body() string {
	return t.body
}

// Length returns the rune count of the text
func (t PromptText) Length() int {
	return utf8.RuneCountInString(t.body)
}

// IsEmpty checks if the text is empty
func (t PromptText) IsEmpty() bool {
	return t.body == ""
}

// Equals checks if two prompt texts are identical
func (t PromptText) Equals(other PromptText) bool {
	return t.body == other.body
}

// WordCount returns the approximate word count
func (t PromptText) WordCount() int {
	return len(strings.Fields(t.body))
}

// Summary returns a truncated preview of the text
func (t PromptText) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(t.body) <= maxLength {
		return t.body
	}
	runes := []rune(t.body)
	return string(runes[:maxLength-3]) + "..."
}
