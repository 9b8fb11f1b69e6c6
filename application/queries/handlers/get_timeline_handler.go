package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
)

// GetTimelineHandler handles timeline queries
type GetTimelineHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	logger      *zap.Logger
}

// NewGetTimelineHandler creates a new timeline handler
func NewGetTimelineHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	logger *zap.Logger,
) *GetTimelineHandler {
	return &GetTimelineHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		logger:      logger,
	}
}

// Handle executes the timeline query
func (h *GetTimelineHandler) Handle(ctx context.Context, query queries.GetTimelineQuery) (*queries.GetTimelineResult, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	chain := lineage.Chain(query.Start, query.End)
	views := make([]queries.RevisionView, 0, len(chain))
	for _, rev := range chain {
		views = append(views, toRevisionView(rev))
	}

	result := &queries.GetTimelineResult{
		SubjectID:     query.SubjectID,
		Revisions:     views,
		RevisionCount: lineage.Len(),
	}
	full := lineage.Chain(nil, nil)
	for i := len(full) - 1; i >= 0; i-- {
		if s := full[i].Score(); s != nil {
			result.LatestScore = s
			break
		}
	}
	if best := lineage.BestHead(); best != nil {
		s := best.String()
		result.BestHeadID = &s
	}
	return result, nil
}
