package valueobjects

import (
	"fmt"

	"promptline/domain/config"
)

// ScoreCard carries the judge's rubric for one revision. The overall quality
// score used by the temporal analyses is the mean of the five dimensions,
// computed once here so analyses never re-derive it.
type ScoreCard struct {
	clarity       float64
	specificity   float64
	actionability float64
	structure     float64
	contextUse    float64
}

// NewScoreCard creates a score card, validating every dimension against the
// configured score domain.
func NewScoreCard(clarity, specificity, actionability, structure, contextUse float64) (ScoreCard, error) {
	return NewScoreCardWithConfig(clarity, specificity, actionability, structure, contextUse, config.DefaultDomainConfig())
}

// NewScoreCardWithConfig creates a score card with explicit configuration
func NewScoreCardWithConfig(clarity, specificity, actionability, structure, contextUse float64, cfg *config.DomainConfig) (ScoreCard, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	dims := map[string]float64{
		"clarity":       clarity,
		"specificity":   specificity,
		"actionability": actionability,
		"structure":     structure,
		"context_use":   contextUse,
	}
	for name, v := range dims {
		if v < cfg.MinScore || v > cfg.MaxScore {
			return ScoreCard{}, fmt.Errorf("%s score %.2f outside domain [%.0f, %.0f]", name, v, cfg.MinScore, cfg.MaxScore)
		}
	}

	return ScoreCard{
		clarity:       clarity,
		specificity:   specificity,
		actionability: actionability,
		structure:     structure,
		contextUse:    contextUse,
	}, nil
}

// UniformScoreCard builds a card with the same value for every dimension.
// Used by the synthetic generator and by callers that only have a scalar.
func UniformScoreCard(value float64) (ScoreCard, error) {
	return NewScoreCard(value, value, value, value, value)
}

// Overall returns the mean of the five dimensions
func (s ScoreCard) Overall() float64 {
	return (s.clarity + s.specificity + s.actionability + s.structure + s.contextUse) / 5.0
}

// Clarity returns the clarity dimension
func (s ScoreCard) Clarity() float64 { return s.clarity }

// Specificity returns the specificity dimension
func (s ScoreCard) Specificity() float64 { return s.specificity }

// Actionability returns the actionability dimension
func (s ScoreCard) Actionability() float64 { return s.actionability }

// Structure returns the structure dimension
func (s ScoreCard) Structure() float64 { return s.structure }

// ContextUse returns the context-use dimension
func (s ScoreCard) ContextUse() float64 { return s.contextUse }
