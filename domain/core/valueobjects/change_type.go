package valueobjects

import "fmt"

// ChangeType is the coarse categorical label for what kind of edit produced a
// revision relative to its parent. It is a closed set so downstream analyses
// can handle every variant exhaustively.
type ChangeType string

const (
	// ChangeTypeStructure marks a rewrite: less than half the content survived
	ChangeTypeStructure ChangeType = "structure"
	// ChangeTypeWording marks small in-place edits
	ChangeTypeWording ChangeType = "wording"
	// ChangeTypeLength marks a large grow or shrink of otherwise similar text
	ChangeTypeLength ChangeType = "length"
	// ChangeTypeOther covers root revisions and anything unclassifiable
	ChangeTypeOther ChangeType = "other"
)

// AllChangeTypes lists every change type in a stable order
func AllChangeTypes() []ChangeType {
	return []ChangeType{ChangeTypeStructure, ChangeTypeWording, ChangeTypeLength, ChangeTypeOther}
}

// ParseChangeType validates and converts a raw string
func ParseChangeType(s string) (ChangeType, error) {
	switch ChangeType(s) {
	case ChangeTypeStructure, ChangeTypeWording, ChangeTypeLength, ChangeTypeOther:
		return ChangeType(s), nil
	default:
		return "", fmt.Errorf("unknown change type: %q", s)
	}
}

// String returns the string representation
func (c ChangeType) String() string {
	return string(c)
}

// IsValid reports whether the value is a member of the closed set
func (c ChangeType) IsValid() bool {
	_, err := ParseChangeType(string(c))
	return err == nil
}
