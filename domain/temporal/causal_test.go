package temporal_test

import (
	"testing"

	"promptline/domain/core/valueobjects"
	"promptline/domain/temporal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHints_GroupsAndRanks(t *testing.T) {
	engine := temporal.NewCausalHintEngine()

	observations := []temporal.EdgeObservation{
		{ChangeType: valueobjects.ChangeTypeStructure, ScoreDelta: 8},
		{ChangeType: valueobjects.ChangeTypeWording, ScoreDelta: 1},
		{ChangeType: valueobjects.ChangeTypeStructure, ScoreDelta: 2},
		{ChangeType: valueobjects.ChangeTypeLength, ScoreDelta: -3},
		{ChangeType: valueobjects.ChangeTypeWording, ScoreDelta: 3},
	}

	hints := engine.ComputeHints(observations)

	require.Len(t, hints, 3)

	assert.Equal(t, valueobjects.ChangeTypeStructure, hints[0].ChangeType)
	assert.InDelta(t, 5.0, hints[0].AvgScoreDelta, 1e-9)
	assert.Equal(t, 2, hints[0].Count)

	assert.Equal(t, valueobjects.ChangeTypeWording, hints[1].ChangeType)
	assert.InDelta(t, 2.0, hints[1].AvgScoreDelta, 1e-9)

	assert.Equal(t, valueobjects.ChangeTypeLength, hints[2].ChangeType)
	assert.InDelta(t, -3.0, hints[2].AvgScoreDelta, 1e-9)
	assert.Equal(t, 1, hints[2].Count)
}

func TestComputeHints_TiesOrderByName(t *testing.T) {
	engine := temporal.NewCausalHintEngine()

	observations := []temporal.EdgeObservation{
		{ChangeType: valueobjects.ChangeTypeWording, ScoreDelta: 4},
		{ChangeType: valueobjects.ChangeTypeLength, ScoreDelta: 4},
		{ChangeType: valueobjects.ChangeTypeStructure, ScoreDelta: 4},
	}

	hints := engine.ComputeHints(observations)

	require.Len(t, hints, 3)
	assert.Equal(t, valueobjects.ChangeTypeLength, hints[0].ChangeType)
	assert.Equal(t, valueobjects.ChangeTypeStructure, hints[1].ChangeType)
	assert.Equal(t, valueobjects.ChangeTypeWording, hints[2].ChangeType)
}

func TestComputeHints_NoObservations(t *testing.T) {
	engine := temporal.NewCausalHintEngine()

	hints := engine.ComputeHints(nil)

	assert.Empty(t, hints)
}
