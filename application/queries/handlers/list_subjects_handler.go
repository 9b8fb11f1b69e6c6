package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/ports"
	"promptline/application/queries"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// ListSubjectsHandler handles subject listing queries
type ListSubjectsHandler struct {
	subjectRepo ports.SubjectRepository
	logger      *zap.Logger
}

// NewListSubjectsHandler creates a new subject listing handler
func NewListSubjectsHandler(subjectRepo ports.SubjectRepository, logger *zap.Logger) *ListSubjectsHandler {
	return &ListSubjectsHandler{subjectRepo: subjectRepo, logger: logger}
}

// Handle executes the list subjects query
func (h *ListSubjectsHandler) Handle(ctx context.Context, query queries.ListSubjectsQuery) (*queries.ListSubjectsResult, error) {
	subjects, err := h.subjectRepo.GetByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]queries.SubjectView, 0, len(subjects))
	for _, s := range subjects {
		views = append(views, queries.SubjectView{
			ID:        s.ID().String(),
			Name:      s.Name(),
			CreatedAt: s.CreatedAt(),
			UpdatedAt: s.UpdatedAt(),
		})
	}
	return &queries.ListSubjectsResult{Subjects: views}, nil
}

// GetRevisionHandler handles single-revision queries
type GetRevisionHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	logger      *zap.Logger
}

// NewGetRevisionHandler creates a new revision handler
func NewGetRevisionHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	logger *zap.Logger,
) *GetRevisionHandler {
	return &GetRevisionHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		logger:      logger,
	}
}

// Handle executes the revision query
func (h *GetRevisionHandler) Handle(ctx context.Context, query queries.GetRevisionQuery) (*queries.RevisionView, error) {
	lineage, err := loadOwnedLineage(ctx, h.subjectRepo, h.lineageRepo, query.UserID, query.SubjectID)
	if err != nil {
		return nil, err
	}

	revisionID, err := valueobjects.NewRevisionIDFromString(query.RevisionID)
	if err != nil {
		return nil, err
	}
	rev, ok := lineage.Revision(revisionID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("revision")
	}
	view := toRevisionView(rev)
	return &view, nil
}
