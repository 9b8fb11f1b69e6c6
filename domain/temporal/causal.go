package temporal

import (
	"sort"

	"promptline/domain/core/valueobjects"
)

// EdgeObservation is one scored transition: the kind of edit made and
// the score movement it coincided with.
type EdgeObservation struct {
	ChangeType valueobjects.ChangeType
	ScoreDelta float64
}

// CausalHint aggregates score movement per change type. The signal is
// correlational: it says which edit kinds coincided with score gains,
// not that they caused them.
type CausalHint struct {
	ChangeType    valueobjects.ChangeType `json:"change_type"`
	AvgScoreDelta float64                 `json:"avg_score_delta"`
	Count         int                     `json:"occurrence_count"`
}

// CausalHintEngine groups scored edges by change type and ranks the
// groups by average score delta.
type CausalHintEngine struct{}

// NewCausalHintEngine creates a hint engine.
func NewCausalHintEngine() *CausalHintEngine {
	return &CausalHintEngine{}
}

// ComputeHints groups observations by change type, averages the score
// deltas, and sorts descending by average. Equal averages sort by the
// change type's name for a stable order. No observations means no
// hints, not an error.
func (e *CausalHintEngine) ComputeHints(observations []EdgeObservation) []CausalHint {
	sums := make(map[valueobjects.ChangeType]float64)
	counts := make(map[valueobjects.ChangeType]int)
	for _, obs := range observations {
		sums[obs.ChangeType] += obs.ScoreDelta
		counts[obs.ChangeType]++
	}

	hints := make([]CausalHint, 0, len(sums))
	for ct, count := range counts {
		hints = append(hints, CausalHint{
			ChangeType:    ct,
			AvgScoreDelta: sums[ct] / float64(count),
			Count:         count,
		})
	}
	sort.Slice(hints, func(i, j int) bool {
		if hints[i].AvgScoreDelta == hints[j].AvgScoreDelta {
			return hints[i].ChangeType.String() < hints[j].ChangeType.String()
		}
		return hints[i].AvgScoreDelta > hints[j].AvgScoreDelta
	})
	return hints
}
