package aggregates_test

import (
	"testing"
	"time"

	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLineage(t *testing.T) *aggregates.Lineage {
	t.Helper()
	l, err := aggregates.NewLineage(valueobjects.NewSubjectID(), nil)
	require.NoError(t, err)
	return l
}

func mustText(t *testing.T, body string) valueobjects.PromptText {
	t.Helper()
	text, err := valueobjects.NewPromptText(body)
	require.NoError(t, err)
	return text
}

func mustCard(t *testing.T, value float64) valueobjects.ScoreCard {
	t.Helper()
	card, err := valueobjects.UniformScoreCard(value)
	require.NoError(t, err)
	return card
}

func TestLineage_AppendRoot(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	rev, err := l.Append(mustText(t, "Summarize the attached report."), nil, at)

	require.NoError(t, err)
	assert.True(t, rev.IsRoot())
	assert.Equal(t, 1, rev.SequenceNo())
	assert.Equal(t, valueobjects.ChangeTypeOther, rev.ChangeType())
	assert.Equal(t, 0.0, rev.ChangeMagnitude())
	assert.Equal(t, 1, l.Len())
}

func TestLineage_AppendChildClassifiesAgainstParent(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "Summarize the attached report."), nil, at)
	require.NoError(t, err)

	rootID := root.ID()
	child, err := l.Append(mustText(t, "Summarize the attached report briefly."), &rootID, at.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, child.SequenceNo())
	assert.Equal(t, valueobjects.ChangeTypeWording, child.ChangeType())
	assert.Greater(t, child.ChangeMagnitude(), 0.0)
	require.NotNil(t, child.ParentID())
	assert.True(t, child.ParentID().Equals(rootID))
}

func TestLineage_AppendDanglingParent(t *testing.T) {
	l := newTestLineage(t)
	missing := valueobjects.NewRevisionID()

	_, err := l.Append(mustText(t, "some prompt"), &missing, time.Now().UTC())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsDanglingParent(err))
	assert.Equal(t, 0, l.Len())
}

func TestLineage_AppendRejectsNonMonotonicTime(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "first draft"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()

	// Equal timestamps are rejected too; the child must be strictly later.
	_, err = l.Append(mustText(t, "second draft"), &rootID, at)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))

	_, err = l.Append(mustText(t, "second draft"), &rootID, at.Add(-time.Minute))
	assert.Error(t, err)
}

func TestLineage_SequenceNumbersAreDense(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "draft one"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()

	// Two branches off the same root still number 2 and 3.
	a, err := l.Append(mustText(t, "draft one, branch a"), &rootID, at.Add(time.Hour))
	require.NoError(t, err)
	b, err := l.Append(mustText(t, "draft one, branch b"), &rootID, at.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, a.SequenceNo())
	assert.Equal(t, 3, b.SequenceNo())
}

func TestLineage_AppendRaisesEvent(t *testing.T) {
	l := newTestLineage(t)

	_, err := l.Append(mustText(t, "first draft"), nil, time.Now().UTC())
	require.NoError(t, err)

	uncommitted := l.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	assert.Equal(t, "revision.appended", uncommitted[0].GetEventType())

	l.ClearEvents()
	assert.Empty(t, l.GetUncommittedEvents())
}

func TestLineage_AttachScorePromotesBestHead(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "first draft"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()
	child, err := l.Append(mustText(t, "first draft, tightened"), &rootID, at.Add(time.Hour))
	require.NoError(t, err)

	assert.Nil(t, l.BestHead())

	_, err = l.AttachScore(rootID, mustCard(t, 60))
	require.NoError(t, err)
	require.NotNil(t, l.BestHead())
	assert.True(t, l.BestHead().Equals(rootID))

	_, err = l.AttachScore(child.ID(), mustCard(t, 75))
	require.NoError(t, err)
	assert.True(t, l.BestHead().Equals(child.ID()))
}

func TestLineage_BestHeadTieKeepsEarlierWinner(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "first draft"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()
	child, err := l.Append(mustText(t, "first draft, reworded"), &rootID, at.Add(time.Hour))
	require.NoError(t, err)

	_, err = l.AttachScore(rootID, mustCard(t, 70))
	require.NoError(t, err)
	_, err = l.AttachScore(child.ID(), mustCard(t, 70))
	require.NoError(t, err)

	assert.True(t, l.BestHead().Equals(rootID))
}

func TestLineage_AttachScoreTwiceConflicts(t *testing.T) {
	l := newTestLineage(t)

	root, err := l.Append(mustText(t, "first draft"), nil, time.Now().UTC())
	require.NoError(t, err)

	_, err = l.AttachScore(root.ID(), mustCard(t, 50))
	require.NoError(t, err)

	_, err = l.AttachScore(root.ID(), mustCard(t, 90))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))

	// Losing attempt must not move the best head either.
	assert.True(t, l.BestHead().Equals(root.ID()))
	require.NotNil(t, root.Score())
	assert.Equal(t, 50.0, *root.Score())
}

func TestLineage_AttachScoreUnknownRevision(t *testing.T) {
	l := newTestLineage(t)

	_, err := l.AttachScore(valueobjects.NewRevisionID(), mustCard(t, 50))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound))
}

func TestLineage_ChainOrdersAndWindows(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "v1"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()
	mid, err := l.Append(mustText(t, "v2"), &rootID, at.Add(time.Hour))
	require.NoError(t, err)
	midID := mid.ID()
	last, err := l.Append(mustText(t, "v3"), &midID, at.Add(2*time.Hour))
	require.NoError(t, err)

	full := l.Chain(nil, nil)
	require.Len(t, full, 3)
	assert.True(t, full[0].ID().Equals(rootID))
	assert.True(t, full[1].ID().Equals(midID))
	assert.True(t, full[2].ID().Equals(last.ID()))

	// Inclusive window that clips the root.
	start := at.Add(30 * time.Minute)
	end := at.Add(2 * time.Hour)
	windowed := l.Chain(&start, &end)
	require.Len(t, windowed, 2)
	assert.True(t, windowed[0].ID().Equals(midID))
	assert.True(t, windowed[1].ID().Equals(last.ID()))

	// A window past the history is empty, not an error.
	farStart := at.Add(48 * time.Hour)
	assert.Empty(t, l.Chain(&farStart, nil))
}

func TestLineage_ScoredEdgesNeedBothEndpoints(t *testing.T) {
	l := newTestLineage(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	root, err := l.Append(mustText(t, "v1 of the prompt"), nil, at)
	require.NoError(t, err)
	rootID := root.ID()
	mid, err := l.Append(mustText(t, "v2 of the prompt"), &rootID, at.Add(time.Hour))
	require.NoError(t, err)
	midID := mid.ID()
	_, err = l.Append(mustText(t, "v3 of the prompt"), &midID, at.Add(2*time.Hour))
	require.NoError(t, err)

	_, err = l.AttachScore(rootID, mustCard(t, 50))
	require.NoError(t, err)
	_, err = l.AttachScore(midID, mustCard(t, 62))
	require.NoError(t, err)

	edges := l.ScoredEdges(nil, nil)

	// v2 -> v3 is skipped: v3 has no score.
	require.Len(t, edges, 1)
	assert.True(t, edges[0].ParentID.Equals(rootID))
	assert.True(t, edges[0].ChildID.Equals(midID))
	assert.InDelta(t, 12.0, edges[0].ScoreDelta, 1e-9)
	assert.Equal(t, time.Hour, edges[0].TimeDelta)

	// A window starting after v2 excludes the edge by its child.
	afterMid := at.Add(90 * time.Minute)
	assert.Empty(t, l.ScoredEdges(&afterMid, nil))
}

func TestLineage_AppendOntoCyclicChainFails(t *testing.T) {
	subjectID := valueobjects.NewSubjectID()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// An imported history can carry a corrupt parent chain; fresh
	// appends must refuse to extend it.
	idA := valueobjects.NewRevisionID()
	idB := valueobjects.NewRevisionID()
	revA := entities.ReconstructRevision(
		idA, subjectID, 1,
		valueobjects.ReconstructPromptText("first imported draft"), &idB, at,
		valueobjects.ChangeTypeOther, 0, nil, nil,
	)
	revB := entities.ReconstructRevision(
		idB, subjectID, 2,
		valueobjects.ReconstructPromptText("second imported draft"), &idA, at.Add(time.Hour),
		valueobjects.ChangeTypeWording, 0.1, nil, nil,
	)

	l, err := aggregates.ReconstructLineage(subjectID, []*entities.Revision{revA, revB}, nil)
	require.NoError(t, err)

	_, err = l.Append(mustText(t, "a fresh draft on top"), &idB, at.Add(3*time.Hour))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCycle(err))
	assert.Equal(t, 2, l.Len())
}

func TestReconstructLineage_RecomputesBestHead(t *testing.T) {
	subjectID := valueobjects.NewSubjectID()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	build := func(seq int, score *float64, createdAt time.Time) *entities.Revision {
		var card *valueobjects.ScoreCard
		if score != nil {
			c := mustCard(t, *score)
			card = &c
		}
		return entities.ReconstructRevision(
			valueobjects.NewRevisionID(), subjectID, seq,
			valueobjects.ReconstructPromptText("stored prompt"), nil, createdAt,
			valueobjects.ChangeTypeOther, 0, score, card,
		)
	}

	low := 40.0
	high := 80.0
	revs := []*entities.Revision{
		build(1, &low, at),
		build(2, nil, at.Add(time.Hour)),
		build(3, &high, at.Add(2*time.Hour)),
	}

	l, err := aggregates.ReconstructLineage(subjectID, revs, nil)
	require.NoError(t, err)

	require.NotNil(t, l.BestHead())
	assert.True(t, l.BestHead().Equals(revs[2].ID()))
	assert.Equal(t, 3, l.Len())
}
