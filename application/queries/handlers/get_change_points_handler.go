package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
	"promptline/domain/config"
	"promptline/domain/temporal"
)

// GetChangePointsHandler handles change-point detection queries
type GetChangePointsHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	detector    *temporal.ChangePointDetector
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewGetChangePointsHandler creates a new change-point handler
func NewGetChangePointsHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	detector *temporal.ChangePointDetector,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *GetChangePointsHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &GetChangePointsHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		detector:    detector,
		cfg:         cfg,
		logger:      logger,
	}
}

// Handle executes the change-point query
func (h *GetChangePointsHandler) Handle(ctx context.Context, query queries.GetChangePointsQuery) (*queries.GetChangePointsResult, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	points := scorePoints(lineage.Chain(query.Start, query.End))

	threshold := query.Threshold
	if threshold <= 0 {
		threshold = h.cfg.ChangePointThreshold
	}

	return &queries.GetChangePointsResult{
		SubjectID:    query.SubjectID,
		Threshold:    threshold,
		ChangePoints: h.detector.Detect(points, threshold),
	}, nil
}
