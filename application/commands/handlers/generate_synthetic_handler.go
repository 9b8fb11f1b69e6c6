package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"promptline/application/commands"
	"promptline/application/ports"
	"promptline/domain/config"
	"promptline/domain/core/valueobjects"
	"promptline/domain/temporal"
	pkgerrors "promptline/pkg/errors"
)

// GenerateSyntheticHandler seeds a subject with a generated history.
// The generated revisions form a linear chain, each scored as it lands.
type GenerateSyntheticHandler struct {
	subjectRepo ports.SubjectRepository
	lineageRepo ports.LineageRepository
	lock        ports.SubjectLock
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewGenerateSyntheticHandler creates a new handler instance
func NewGenerateSyntheticHandler(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	lock ports.SubjectLock,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *GenerateSyntheticHandler {
	return &GenerateSyntheticHandler{
		subjectRepo: subjectRepo,
		lineageRepo: lineageRepo,
		lock:        lock,
		cfg:         cfg,
		logger:      logger,
	}
}

// Handle executes the generate synthetic command
func (h *GenerateSyntheticHandler) Handle(ctx context.Context, cmd *commands.GenerateSyntheticCommand) error {
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

	start := cmd.Start
	if start.IsZero() {
		start = time.Now().UTC().AddDate(0, 0, -cmd.Days)
	}

	generator := temporal.NewSyntheticHistoryGenerator(cmd.Seed, h.cfg)
	synthetic, err := generator.Generate(cmd.Days, cmd.VersionsPerDay, cmd.Trend, start)
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

	var parentID *valueobjects.RevisionID
	for _, s := range synthetic {
		text, err := valueobjects.NewPromptTextWithConfig(s.Text, h.cfg)
		if err != nil {
			return err
		}
		rev, err := lineage.Append(text, parentID, s.CreatedAt)
		if err != nil {
			return err
		}
		card, err := valueobjects.UniformScoreCard(s.Score)
		if err != nil {
			return err
		}
		if _, err := lineage.AttachScore(rev.ID(), card); err != nil {
			return err
		}
		if err := h.lineageRepo.SaveRevision(ctx, rev); err != nil {
			return err
		}
		id := rev.ID()
		parentID = &id
	}
	lineage.ClearEvents()

	if best := lineage.BestHead(); best != nil {
		if rev, ok := lineage.Revision(*best); ok && rev.Score() != nil {
			if err := h.lineageRepo.SaveBestHead(ctx, subjectID, *best, *rev.Score()); err != nil {
				return err
			}
		}
	}

	h.logger.Info("synthetic history generated",
		zap.String("subject_id", cmd.SubjectID),
		zap.String("trend", cmd.Trend),
		zap.Int("revisions", len(synthetic)))

	cmd.Result = len(synthetic)
	return nil
}
