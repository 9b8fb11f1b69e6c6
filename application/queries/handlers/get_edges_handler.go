package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
)

// GetEdgesHandler handles scored-edge listing queries
type GetEdgesHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	logger      *zap.Logger
}

// NewGetEdgesHandler creates a new edges handler
func NewGetEdgesHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	logger *zap.Logger,
) *GetEdgesHandler {
	return &GetEdgesHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		logger:      logger,
	}
}

// Handle executes the edges query
func (h *GetEdgesHandler) Handle(ctx context.Context, query queries.GetEdgesQuery) (*queries.GetEdgesResult, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	edges := lineage.ScoredEdges(query.Start, query.End)
	views := make([]queries.EdgeView, 0, len(edges))
	for _, e := range edges {
		views = append(views, queries.EdgeView{
			ParentID:         e.ParentID.String(),
			ChildID:          e.ChildID.String(),
			ChangeType:       e.ChangeType.String(),
			ScoreDelta:       e.ScoreDelta,
			TimeDeltaSeconds: e.TimeDelta.Seconds(),
		})
	}

	return &queries.GetEdgesResult{
		SubjectID: query.SubjectID,
		Edges:     views,
	}, nil
}
