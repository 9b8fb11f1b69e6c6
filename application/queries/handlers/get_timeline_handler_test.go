package handlers

import (
	"context"
	"testing"
	"time"

	"promptline/application/queries"
	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	"promptline/infrastructure/persistence/memory"
	pkgerrors "promptline/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type queryFixture struct {
	subjectRepo *memory.SubjectRepository
	lineageRepo *memory.LineageRepository
	subject     *entities.Subject
	revisionIDs []string
}

// seedScoredChain stores a linear chain of revisions one hour apart,
// scoring each one with the given value. A nil score leaves the
// revision unscored.
func seedScoredChain(t *testing.T, scores []*float64) *queryFixture {
	t.Helper()
	ctx := context.Background()

	f := &queryFixture{
		subjectRepo: memory.NewSubjectRepository(),
		lineageRepo: memory.NewLineageRepository(nil),
	}
	subject, err := entities.NewSubject("user-1", "query fixture")
	require.NoError(t, err)
	require.NoError(t, f.subjectRepo.Save(ctx, subject))
	f.subject = subject

	lineage, err := aggregates.NewLineage(subject.ID(), nil)
	require.NoError(t, err)

	start := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	var parentID *valueobjects.RevisionID
	for i, score := range scores {
		text, err := valueobjects.NewPromptText("chain draft number " + string(rune('a'+i)))
		require.NoError(t, err)
		rev, err := lineage.Append(text, parentID, start.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		if score != nil {
			card, err := valueobjects.UniformScoreCard(*score)
			require.NoError(t, err)
			_, err = lineage.AttachScore(rev.ID(), card)
			require.NoError(t, err)
		}
		require.NoError(t, f.lineageRepo.SaveRevision(ctx, rev))
		id := rev.ID()
		parentID = &id
		f.revisionIDs = append(f.revisionIDs, id.String())
	}
	return f
}

func scorePtr(v float64) *float64 { return &v }

func TestGetTimelineHandler_Handle(t *testing.T) {
	f := seedScoredChain(t, []*float64{scorePtr(50), nil, scorePtr(80)})
	handler := NewGetTimelineHandler(f.subjectRepo, f.lineageRepo, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetTimelineQuery{
		UserID:    "user-1",
		SubjectID: f.subject.ID().String(),
	})

	require.NoError(t, err)
	require.Len(t, result.Revisions, 3)
	assert.Equal(t, f.revisionIDs[0], result.Revisions[0].ID)
	assert.Nil(t, result.Revisions[0].ParentID)
	require.NotNil(t, result.Revisions[1].ParentID)
	assert.Equal(t, f.revisionIDs[0], *result.Revisions[1].ParentID)
	assert.Nil(t, result.Revisions[1].Score)
	require.NotNil(t, result.Revisions[2].Score)
	assert.InDelta(t, 80.0, *result.Revisions[2].Score, 1e-9)

	assert.Equal(t, 3, result.RevisionCount)
	require.NotNil(t, result.LatestScore)
	assert.InDelta(t, 80.0, *result.LatestScore, 1e-9)

	require.NotNil(t, result.BestHeadID)
	assert.Equal(t, f.revisionIDs[2], *result.BestHeadID)
}

func TestGetTimelineHandler_Window(t *testing.T) {
	f := seedScoredChain(t, []*float64{scorePtr(50), scorePtr(60), scorePtr(70)})
	handler := NewGetTimelineHandler(f.subjectRepo, f.lineageRepo, zap.NewNop())

	start := time.Date(2025, 7, 10, 8, 30, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), queries.GetTimelineQuery{
		UserID:    "user-1",
		SubjectID: f.subject.ID().String(),
		Start:     &start,
	})

	require.NoError(t, err)
	require.Len(t, result.Revisions, 2)
	assert.Equal(t, f.revisionIDs[1], result.Revisions[0].ID)
	// The summary fields still describe the whole lineage.
	assert.Equal(t, 3, result.RevisionCount)
}

func TestGetTimelineHandler_ForbiddenForOtherUser(t *testing.T) {
	f := seedScoredChain(t, []*float64{scorePtr(50)})
	handler := NewGetTimelineHandler(f.subjectRepo, f.lineageRepo, zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetTimelineQuery{
		UserID:    "someone-else",
		SubjectID: f.subject.ID().String(),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))
}

func TestGetEdgesHandler_SkipsUnscoredEndpoints(t *testing.T) {
	f := seedScoredChain(t, []*float64{scorePtr(50), scorePtr(62), nil, scorePtr(70)})
	handler := NewGetEdgesHandler(f.subjectRepo, f.lineageRepo, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetEdgesQuery{
		UserID:    "user-1",
		SubjectID: f.subject.ID().String(),
	})

	require.NoError(t, err)
	// Edges touching the unscored third revision drop out.
	require.Len(t, result.Edges, 1)
	assert.Equal(t, f.revisionIDs[0], result.Edges[0].ParentID)
	assert.Equal(t, f.revisionIDs[1], result.Edges[0].ChildID)
	assert.InDelta(t, 12.0, result.Edges[0].ScoreDelta, 1e-9)
	assert.InDelta(t, 3600.0, result.Edges[0].TimeDeltaSeconds, 1e-9)
}

func TestGetRevisionHandler_Handle(t *testing.T) {
	f := seedScoredChain(t, []*float64{scorePtr(50), scorePtr(65)})
	handler := NewGetRevisionHandler(f.subjectRepo, f.lineageRepo, zap.NewNop())

	view, err := handler.Handle(context.Background(), queries.GetRevisionQuery{
		UserID:     "user-1",
		SubjectID:  f.subject.ID().String(),
		RevisionID: f.revisionIDs[1],
	})
	require.NoError(t, err)
	assert.Equal(t, 2, view.SequenceNo)
	require.NotNil(t, view.ScoreCard)
	assert.InDelta(t, 65.0, view.ScoreCard.Clarity, 1e-9)

	_, err = handler.Handle(context.Background(), queries.GetRevisionQuery{
		UserID:     "user-1",
		SubjectID:  f.subject.ID().String(),
		RevisionID: valueobjects.NewRevisionID().String(),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound))
}

func TestListSubjectsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSubjectRepository()
	for _, name := range []string{"alpha", "beta"} {
		subject, err := entities.NewSubject("user-1", name)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, subject))
	}
	handler := NewListSubjectsHandler(repo, zap.NewNop())

	result, err := handler.Handle(ctx, queries.ListSubjectsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, result.Subjects, 2)

	empty, err := handler.Handle(ctx, queries.ListSubjectsQuery{UserID: "user-9"})
	require.NoError(t, err)
	assert.Empty(t, empty.Subjects)
}
