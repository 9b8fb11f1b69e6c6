package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"promptline/application/commands"
	"promptline/application/ports"
	"promptline/domain/config"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// AppendRevisionHandler handles appending a revision to a lineage.
// It serializes per subject so sequence numbers stay dense.
type AppendRevisionHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	lock        ports.SubjectLock
	publisher   ports.EventPublisher
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewAppendRevisionHandler creates a new handler instance
func NewAppendRevisionHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	lock ports.SubjectLock,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *AppendRevisionHandler {
	return &AppendRevisionHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		lock:        lock,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
	}
}

// Handle executes the append revision command
func (h *AppendRevisionHandler) Handle(ctx context.Context, cmd *commands.AppendRevisionCommand) error {
	subjectID, err := valueobjects.NewSubjectIDFromString(cmd.SubjectID)
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

	text, err := valueobjects.NewPromptTextWithConfig(cmd.Text, h.cfg)
	if err != nil {
		return err
	}

	var parentID *valueobjects.RevisionID
	if cmd.ParentID != nil {
		pid, err := valueobjects.NewRevisionIDFromString(*cmd.ParentID)
		if err != nil {
			return err
		}
		parentID = &pid
	}

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
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

	rev, err := lineage.Append(text, parentID, createdAt)
	if err != nil {
		return err
	}

	if err := h.lineageRepo.SaveRevision(ctx, rev); err != nil {
		return err
	}

	if err := h.publisher.Publish(ctx, lineage.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish revision appended event",
			zap.String("subject_id", cmd.SubjectID),
			zap.String("revision_id", rev.ID().String()),
			zap.Error(err))
	}
	lineage.ClearEvents()

	h.logger.Info("revision appended",
		zap.String("subject_id", cmd.SubjectID),
		zap.String("revision_id", rev.ID().String()),
		zap.Int("sequence_no", rev.SequenceNo()),
		zap.String("change_type", rev.ChangeType().String()),
		zap.Float64("change_magnitude", rev.ChangeMagnitude()))

	cmd.Result = rev
	return nil
}
