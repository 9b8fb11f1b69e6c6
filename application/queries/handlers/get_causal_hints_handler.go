package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
	"promptline/domain/temporal"
)

// GetCausalHintsHandler handles change-type correlation queries
type GetCausalHintsHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	engine      *temporal.CausalHintEngine
	logger      *zap.Logger
}

// NewGetCausalHintsHandler creates a new causal hints handler
func NewGetCausalHintsHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	engine *temporal.CausalHintEngine,
	logger *zap.Logger,
) *GetCausalHintsHandler {
	return &GetCausalHintsHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		engine:      engine,
		logger:      logger,
	}
}

// Handle executes the causal hints query
func (h *GetCausalHintsHandler) Handle(ctx context.Context, query queries.GetCausalHintsQuery) (*queries.GetCausalHintsResult, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	edges := lineage.ScoredEdges(query.Start, query.End)
	observations := make([]temporal.EdgeObservation, 0, len(edges))
	for _, e := range edges {
		observations = append(observations, temporal.EdgeObservation{
			ChangeType: e.ChangeType,
			ScoreDelta: e.ScoreDelta,
		})
	}

	return &queries.GetCausalHintsResult{
		SubjectID: query.SubjectID,
		Hints:     h.engine.ComputeHints(observations),
		Note:      queries.HintDisclaimer,
	}, nil
}
