package temporal_test

import (
	"testing"
	"time"

	"promptline/domain/temporal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_CountAndSpacing(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(7, nil)
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	revs, err := g.Generate(3, 4, temporal.SyntheticImproving, start)

	require.NoError(t, err)
	require.Len(t, revs, 12)
	assert.Equal(t, start, revs[0].CreatedAt)
	assert.Equal(t, start.Add(6*time.Hour), revs[1].CreatedAt)
	assert.Equal(t, start.Add(66*time.Hour), revs[11].CreatedAt)
}

func TestGenerate_SameSeedSameHistory(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	a, err := temporal.NewSyntheticHistoryGenerator(99, nil).Generate(5, 3, temporal.SyntheticOscillating, start)
	require.NoError(t, err)
	b, err := temporal.NewSyntheticHistoryGenerator(99, nil).Generate(5, 3, temporal.SyntheticOscillating, start)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_DifferentSeedsDiverge(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	a, err := temporal.NewSyntheticHistoryGenerator(1, nil).Generate(5, 3, temporal.SyntheticImproving, start)
	require.NoError(t, err)
	b, err := temporal.NewSyntheticHistoryGenerator(2, nil).Generate(5, 3, temporal.SyntheticImproving, start)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerate_ImprovingTrendsUpward(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(11, nil)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	revs, err := g.Generate(10, 2, temporal.SyntheticImproving, start)
	require.NoError(t, err)

	// Average the first and last quarters; noise is bounded to 3% of
	// the range so a 50-point ramp dominates it easily.
	quarter := len(revs) / 4
	var early, late float64
	for i := 0; i < quarter; i++ {
		early += revs[i].Score
		late += revs[len(revs)-1-i].Score
	}
	assert.Greater(t, late, early)
}

func TestGenerate_DegradingTrendsDownward(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(11, nil)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	revs, err := g.Generate(10, 2, temporal.SyntheticDegrading, start)
	require.NoError(t, err)

	assert.Greater(t, revs[0].Score, revs[len(revs)-1].Score)
}

func TestGenerate_ScoresStayInRange(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(3, nil)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, trend := range []string{temporal.SyntheticImproving, temporal.SyntheticDegrading, temporal.SyntheticOscillating} {
		revs, err := g.Generate(4, 6, trend, start)
		require.NoError(t, err)
		for _, r := range revs {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 100.0)
			assert.NotEmpty(t, r.Text)
		}
	}
}

func TestGenerate_TextsChangeBetweenRevisions(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(5, nil)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	revs, err := g.Generate(2, 3, temporal.SyntheticImproving, start)
	require.NoError(t, err)

	for i := 1; i < len(revs); i++ {
		assert.NotEqual(t, revs[i-1].Text, revs[i].Text)
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	g := temporal.NewSyntheticHistoryGenerator(1, nil)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := g.Generate(0, 3, temporal.SyntheticImproving, start)
	assert.Error(t, err)

	_, err = g.Generate(3, 0, temporal.SyntheticImproving, start)
	assert.Error(t, err)

	_, err = g.Generate(3, 3, "sideways", start)
	assert.Error(t, err)
}
