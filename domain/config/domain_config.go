package config

// DomainConfig holds tunable domain thresholds. These are configuration, not
// derived values: deployments tune them without touching the algorithms.
type DomainConfig struct {
	// Trend classification thresholds, in score points per second. Scaled so
	// that typical human edit cadences land near the +/-0.05 defaults.
	ImprovingSlopeThreshold float64
	DegradingSlopeThreshold float64

	// Change-point sensitivity: a jump qualifies when the absolute delta
	// between consecutive scores exceeds ChangePointThreshold * ScoreRangeUnit.
	ChangePointThreshold float64
	ScoreRangeUnit       float64

	// Classifier decision boundaries
	RewriteSimilarityCutoff float64 // below this similarity ratio an edit is a rewrite
	LengthRatioUpper        float64
	LengthRatioLower        float64

	// Prompt content limits
	MaxPromptLength int

	// Score domain
	MinScore float64
	MaxScore float64

	// Safety bound for the ancestor walk during cycle checks; a chain deeper
	// than this indicates corrupted parent links.
	MaxAncestorWalk int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		ImprovingSlopeThreshold: 0.05,
		DegradingSlopeThreshold: -0.05,
		ChangePointThreshold:    0.2,
		ScoreRangeUnit:          100,
		RewriteSimilarityCutoff: 0.5,
		LengthRatioUpper:        1.5,
		LengthRatioLower:        0.5,
		MaxPromptLength:         50000,
		MinScore:                0,
		MaxScore:                100,
		MaxAncestorWalk:         100000,
	}
}
