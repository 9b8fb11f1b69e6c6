package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
	"promptline/domain/temporal"
)

// GetTrendHandler handles trend analysis queries
type GetTrendHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	detector    *temporal.TrendDetector
	logger      *zap.Logger
}

// NewGetTrendHandler creates a new trend handler
func NewGetTrendHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	detector *temporal.TrendDetector,
	logger *zap.Logger,
) *GetTrendHandler {
	return &GetTrendHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		detector:    detector,
		logger:      logger,
	}
}

// Handle executes the trend query over the subject's scored history.
// Unscored revisions contribute nothing to the fit.
func (h *GetTrendHandler) Handle(ctx context.Context, query queries.GetTrendQuery) (*queries.GetTrendResult, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	points := scorePoints(lineage.Chain(query.Start, query.End))

	result := &queries.GetTrendResult{
		SubjectID:      query.SubjectID,
		Trend:          h.detector.DetectTrend(points),
		Statistics:     h.detector.ComputeStatistics(points),
		VelocityPerDay: h.detector.ComputeVelocity(points),
	}
	if best := lineage.BestHead(); best != nil {
		s := best.String()
		result.BestHeadID = &s
	}
	return result, nil
}
