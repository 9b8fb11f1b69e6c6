package memory

import (
	"context"
	"testing"
	"time"

	"promptline/domain/core/aggregates"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLineage(t *testing.T, repo *LineageRepository, count int) (*aggregates.Lineage, time.Time) {
	t.Helper()
	ctx := context.Background()
	subjectID := valueobjects.NewSubjectID()
	lineage, err := aggregates.NewLineage(subjectID, nil)
	require.NoError(t, err)

	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	var parentID *valueobjects.RevisionID
	for i := 0; i < count; i++ {
		text, err := valueobjects.NewPromptText("draft number " + string(rune('a'+i)))
		require.NoError(t, err)
		rev, err := lineage.Append(text, parentID, start.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.SaveRevision(ctx, rev))
		id := rev.ID()
		parentID = &id
	}
	return lineage, start
}

func TestLineageRepository_RoundTrip(t *testing.T) {
	repo := NewLineageRepository(nil)
	lineage, _ := seedLineage(t, repo, 3)

	loaded, err := repo.GetBySubjectID(context.Background(), lineage.SubjectID())

	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
	chain := loaded.Chain(nil, nil)
	require.Len(t, chain, 3)
	assert.Equal(t, 1, chain[0].SequenceNo())
	assert.Equal(t, 3, chain[2].SequenceNo())
}

func TestLineageRepository_GetRevision(t *testing.T) {
	repo := NewLineageRepository(nil)
	lineage, _ := seedLineage(t, repo, 2)
	want := lineage.Chain(nil, nil)[1]

	got, err := repo.GetRevision(context.Background(), lineage.SubjectID(), want.ID())
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(want.ID()))

	_, err = repo.GetRevision(context.Background(), lineage.SubjectID(), valueobjects.NewRevisionID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound))
}

func TestLineageRepository_Window(t *testing.T) {
	repo := NewLineageRepository(nil)
	lineage, start := seedLineage(t, repo, 4)

	from := start.Add(30 * time.Minute)
	to := start.Add(2 * time.Hour)
	revs, err := repo.GetRevisionsInWindow(context.Background(), lineage.SubjectID(), &from, &to)

	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, 2, revs[0].SequenceNo())
	assert.Equal(t, 3, revs[1].SequenceNo())

	all, err := repo.GetRevisionsInWindow(context.Background(), lineage.SubjectID(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLineageRepository_BestHead(t *testing.T) {
	repo := NewLineageRepository(nil)
	ctx := context.Background()
	subjectID := valueobjects.NewSubjectID()

	head, err := repo.GetBestHead(ctx, subjectID)
	require.NoError(t, err)
	assert.Nil(t, head)

	revisionID := valueobjects.NewRevisionID()
	require.NoError(t, repo.SaveBestHead(ctx, subjectID, revisionID, 88))

	head, err = repo.GetBestHead(ctx, subjectID)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.True(t, head.Equals(revisionID))
}

func TestSubjectLock_SerializesWriters(t *testing.T) {
	lock := NewSubjectLock()
	subjectID := valueobjects.NewSubjectID()

	release, err := lock.Acquire(context.Background(), subjectID)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release2, err := lock.Acquire(context.Background(), subjectID)
		assert.NoError(t, err)
		close(acquired)
		release2()
	}()

	select {
	case <-acquired:
		t.Fatal("second writer acquired the lock while it was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second writer never acquired the lock after release")
	}
}
