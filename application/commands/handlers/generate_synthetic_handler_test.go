package handlers

import (
	"context"
	"testing"
	"time"

	"promptline/application/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateSyntheticHandler_Handle(t *testing.T) {
	f := newFixture(t)
	handler := NewGenerateSyntheticHandler(f.subjectRepo, f.lineageRepo, f.lock, nil, zap.NewNop())
	ctx := context.Background()

	cmd := &commands.GenerateSyntheticCommand{
		UserID:         "user-1",
		SubjectID:      f.subject.ID().String(),
		Days:           4,
		VersionsPerDay: 3,
		Trend:          "improving",
		Seed:           7,
		Start:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, 12, cmd.Result)

	lineage, err := f.lineageRepo.GetBySubjectID(ctx, f.subject.ID())
	require.NoError(t, err)
	assert.Equal(t, 12, lineage.Len())

	// Every generated revision is scored and chained to its predecessor.
	chain := lineage.Chain(nil, nil)
	require.Len(t, chain, 12)
	assert.True(t, chain[0].IsRoot())
	for i, rev := range chain {
		assert.True(t, rev.IsScored())
		assert.Equal(t, i+1, rev.SequenceNo())
		if i > 0 {
			require.NotNil(t, rev.ParentID())
			assert.True(t, rev.ParentID().Equals(chain[i-1].ID()))
		}
	}

	head, err := f.lineageRepo.GetBestHead(ctx, f.subject.ID())
	require.NoError(t, err)
	assert.NotNil(t, head)
}

func TestGenerateSyntheticHandler_Deterministic(t *testing.T) {
	ctx := context.Background()
	runOnce := func() []float64 {
		f := newFixture(t)
		handler := NewGenerateSyntheticHandler(f.subjectRepo, f.lineageRepo, f.lock, nil, zap.NewNop())
		cmd := &commands.GenerateSyntheticCommand{
			UserID:         "user-1",
			SubjectID:      f.subject.ID().String(),
			Days:           3,
			VersionsPerDay: 2,
			Trend:          "oscillating",
			Seed:           1234,
			Start:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, handler.Handle(ctx, cmd))

		lineage, err := f.lineageRepo.GetBySubjectID(ctx, f.subject.ID())
		require.NoError(t, err)
		scores := []float64{}
		for _, rev := range lineage.Chain(nil, nil) {
			scores = append(scores, *rev.Score())
		}
		return scores
	}

	assert.Equal(t, runOnce(), runOnce())
}

func TestGenerateSyntheticHandler_UnknownTrend(t *testing.T) {
	f := newFixture(t)
	handler := NewGenerateSyntheticHandler(f.subjectRepo, f.lineageRepo, f.lock, nil, zap.NewNop())

	cmd := &commands.GenerateSyntheticCommand{
		UserID:         "user-1",
		SubjectID:      f.subject.ID().String(),
		Days:           3,
		VersionsPerDay: 2,
		Trend:          "sideways",
		Seed:           1,
	}
	err := handler.Handle(context.Background(), cmd)

	assert.Error(t, err)
}
