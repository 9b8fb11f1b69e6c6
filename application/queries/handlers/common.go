package handlers

import (
	"context"

	"promptline/application/ports"
	"promptline/application/queries"
	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	"promptline/domain/temporal"
	pkgerrors "promptline/pkg/errors"
)

// loadOwnedLineage resolves the subject, checks ownership, and loads
// its lineage. Every read path funnels through this.
func loadOwnedLineage(
	ctx context.Context,
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	userID, subjectID string,
) (*aggregates.Lineage, error) {
	sid, err := valueobjects.NewSubjectIDFromString(subjectID)
	if err != nil {
		return nil, err
	}
	subject, err := subjectRepo.GetByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(userID) {
		return nil, pkgerrors.NewForbiddenError("subject belongs to another user")
	}
	return lineageRepo.GetBySubjectID(ctx, sid)
}

// toRevisionView maps a revision entity to its read model.
func toRevisionView(rev *entities.Revision) queries.RevisionView {
	view := queries.RevisionView{
		ID:              rev.ID().String(),
		SequenceNo:      rev.SequenceNo(),
		Text:            rev.Text().Body(),
		CreatedAt:       rev.CreatedAt(),
		ChangeType:      rev.ChangeType().String(),
		ChangeMagnitude: rev.ChangeMagnitude(),
		Score:           rev.Score(),
	}
	if pid := rev.ParentID(); pid != nil {
		s := pid.String()
		view.ParentID = &s
	}
	if card := rev.ScoreCard(); card != nil {
		view.ScoreCard = &queries.ScoreCardView{
			Clarity:       card.Clarity(),
			Specificity:   card.Specificity(),
			Actionability: card.Actionability(),
			Structure:     card.Structure(),
			ContextUse:    card.ContextUse(),
		}
	}
	return view
}

// scorePoints extracts the scored revisions from a chain, in order.
func scorePoints(revs []*entities.Revision) []temporal.ScorePoint {
	points := make([]temporal.ScorePoint, 0, len(revs))
	for _, rev := range revs {
		if rev.Score() == nil {
			continue
		}
		points = append(points, temporal.ScorePoint{
			Timestamp: rev.CreatedAt(),
			Score:     *rev.Score(),
		})
	}
	return points
}
