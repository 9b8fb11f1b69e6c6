package handlers

import (
	"context"

	"go.uber.org/zap"

	"promptline/application/commands"
	"promptline/application/ports"
	"promptline/domain/config"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// AttachScoreHandler handles attaching a judge score to a revision.
type AttachScoreHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	lock        ports.SubjectLock
	publisher   ports.EventPublisher
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewAttachScoreHandler creates a new handler instance
func NewAttachScoreHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	lock ports.SubjectLock,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *AttachScoreHandler {
	return &AttachScoreHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		lock:        lock,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
	}
}

// Handle executes the attach score command
func (h *AttachScoreHandler) Handle(ctx context.Context, cmd *commands.AttachScoreCommand) error {
	subjectID, err := valueobjects.NewSubjectIDFromString(cmd.SubjectID)
	if err != nil {
		return err
	}
	revisionID, err := valueobjects.NewRevisionIDFromString(cmd.RevisionID)
	if err != nil {
		return err
	}

	subject, err := h.subjectRepo.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}
	if !subject.IsOwnedBy(cmd.UserID) {
		return pkgerrors.NewForbiddenError("subject belongs to another user")
	}

	card, err := valueobjects.NewScoreCardWithConfig(
		cmd.Clarity, cmd.Specificity, cmd.Actionability, cmd.Structure, cmd.ContextUse, h.cfg,
	)
	if err != nil {
		return err
	}

	release, err := h.lock.Acquire(ctx, subjectID)
	if err != nil {
		return err
	}
	defer release()

	lineage, err := h.lineageRepo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return err
	}

	rev, err := lineage.AttachScore(revisionID, card)
	if err != nil {
		return err
	}

	if err := h.lineageRepo.SaveRevision(ctx, rev); err != nil {
		return err
	}
	if best := lineage.BestHead(); best != nil && best.Equals(revisionID) {
		if err := h.lineageRepo.SaveBestHead(ctx, subjectID, revisionID, *rev.Score()); err != nil {
			return err
		}
	}

	if err := h.publisher.Publish(ctx, lineage.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish score attached event",
			zap.String("subject_id", cmd.SubjectID),
			zap.String("revision_id", cmd.RevisionID),
			zap.Error(err))
	}
	lineage.ClearEvents()

	h.logger.Info("score attached",
		zap.String("subject_id", cmd.SubjectID),
		zap.String("revision_id", cmd.RevisionID),
		zap.Float64("score", *rev.Score()))

	cmd.Result = rev
	return nil
}
