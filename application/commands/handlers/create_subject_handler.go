package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"promptline/application/commands"
	"promptline/application/ports"
	"promptline/domain/core/entities"
	"promptline/domain/events"
)

// CreateSubjectHandler handles subject creation
type CreateSubjectHandler struct {
	subjectRepo ports.SubjectRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewCreateSubjectHandler creates a new handler instance
func NewCreateSubjectHandler(
	subjectRepo ports.SubjectRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateSubjectHandler {
	return &CreateSubjectHandler{
		subjectRepo: subjectRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the create subject command
func (h *CreateSubjectHandler) Handle(ctx context.Context, cmd *commands.CreateSubjectCommand) error {
	subject, err := entities.NewSubject(cmd.UserID, cmd.Name)
	if err != nil {
		return err
	}

	if err := h.subjectRepo.Save(ctx, subject); err != nil {
		return err
	}

	evt := events.NewLineageCreated(subject.ID(), cmd.UserID, subject.Name(), time.Now().UTC())
	if err := h.publisher.Publish(ctx, []events.DomainEvent{evt}); err != nil {
		h.logger.Warn("failed to publish subject created event",
			zap.String("subject_id", subject.ID().String()),
			zap.Error(err))
	}

	h.logger.Info("subject created",
		zap.String("subject_id", subject.ID().String()),
		zap.String("user_id", cmd.UserID))

	cmd.Result = subject
	return nil
}
