package temporal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"promptline/domain/config"
	pkgerrors "promptline/pkg/errors"
)

// Trend shapes the synthetic generator can produce.
const (
	SyntheticImproving   = "improving"
	SyntheticDegrading   = "degrading"
	SyntheticOscillating = "oscillating"
)

// SyntheticRevision is one generated history entry, ready to append.
type SyntheticRevision struct {
	Text      string
	CreatedAt time.Time
	Score     float64
}

// SyntheticHistoryGenerator produces deterministic fake revision
// histories for demos and load testing. The same seed always yields
// the same sequence.
type SyntheticHistoryGenerator struct {
	rng *rand.Rand
	cfg *config.DomainConfig
}

// NewSyntheticHistoryGenerator creates a generator with the given seed.
func NewSyntheticHistoryGenerator(seed int64, cfg *config.DomainConfig) *SyntheticHistoryGenerator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &SyntheticHistoryGenerator{
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

var mutationPhrases = []string{
	"Respond in a numbered list.",
	"Keep the answer under two hundred words.",
	"Cite the source for every claim.",
	"Use plain language and avoid jargon.",
	"State assumptions before answering.",
	"If the request is ambiguous, ask one clarifying question.",
	"Prefer concrete examples over abstract advice.",
	"Summarize the key takeaway in the first sentence.",
}

// Generate produces days * versionsPerDay revisions starting at start,
// spaced evenly through each day. Scores follow the requested trend
// with bounded noise and are clamped to the configured score range.
func (g *SyntheticHistoryGenerator) Generate(days, versionsPerDay int, trend string, start time.Time) ([]SyntheticRevision, error) {
	if days < 1 || versionsPerDay < 1 {
		return nil, pkgerrors.NewValidationError("days and versions per day must be positive", map[string]interface{}{
			"days":             days,
			"versions_per_day": versionsPerDay,
		})
	}
	switch trend {
	case SyntheticImproving, SyntheticDegrading, SyntheticOscillating:
	default:
		return nil, pkgerrors.NewValidationError("unknown trend", map[string]interface{}{
			"trend": trend,
		})
	}

	total := days * versionsPerDay
	step := 24 * time.Hour / time.Duration(versionsPerDay)
	scoreSpan := g.cfg.MaxScore - g.cfg.MinScore

	out := make([]SyntheticRevision, 0, total)
	text := "You are a helpful assistant. Answer the user's question."
	for i := 0; i < total; i++ {
		progress := 0.0
		if total > 1 {
			progress = float64(i) / float64(total-1)
		}

		var base float64
		switch trend {
		case SyntheticImproving:
			base = g.cfg.MinScore + scoreSpan*(0.4+0.5*progress)
		case SyntheticDegrading:
			base = g.cfg.MinScore + scoreSpan*(0.9-0.5*progress)
		case SyntheticOscillating:
			base = g.cfg.MinScore + scoreSpan*(0.6+0.25*math.Sin(progress*4*math.Pi))
		}
		noise := (g.rng.Float64() - 0.5) * scoreSpan * 0.06
		score := clamp(base+noise, g.cfg.MinScore, g.cfg.MaxScore)

		if i > 0 {
			text = g.mutate(text, i)
		}
		out = append(out, SyntheticRevision{
			Text:      text,
			CreatedAt: start.UTC().Add(time.Duration(i) * step),
			Score:     score,
		})
	}
	return out, nil
}

// mutate rewrites the prompt enough for the classifier to see a real
// edit: mostly appended guidance, occasionally a reshuffle.
func (g *SyntheticHistoryGenerator) mutate(text string, iteration int) string {
	phrase := mutationPhrases[g.rng.Intn(len(mutationPhrases))]
	switch g.rng.Intn(4) {
	case 0:
		// Restructure: lead with the newest constraint.
		return phrase + " " + text
	case 1:
		// Trim then extend, shifting length.
		sentences := strings.SplitAfter(text, ". ")
		if len(sentences) > 2 {
			text = strings.Join(sentences[:len(sentences)-1], "")
		}
		return text + " " + phrase
	default:
		return fmt.Sprintf("%s %s (rev %d)", text, phrase, iteration)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
