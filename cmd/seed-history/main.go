// seed-history creates a subject and fills it with a synthetic scored
// revision history. Useful for demos and for exercising the trend
// endpoints against a known shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"promptline/application/commands"
	"promptline/infrastructure/config"
	"promptline/infrastructure/di"
)

func main() {
	var (
		userID         = flag.String("user", "seed-user", "owner user ID")
		name           = flag.String("name", "seeded-subject", "subject name")
		days           = flag.Int("days", 14, "days of history")
		versionsPerDay = flag.Int("versions-per-day", 3, "revisions per day")
		trend          = flag.String("trend", "improving", "trend shape: improving, degrading, or oscillating")
		seed           = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	createCmd := &commands.CreateSubjectCommand{
		UserID: *userID,
		Name:   *name,
	}
	if err := container.CommandBus.Send(ctx, createCmd); err != nil {
		logger.Error("failed to create subject", zap.Error(err))
		os.Exit(1)
	}
	subjectID := createCmd.Result.ID().String()

	seedCmd := &commands.GenerateSyntheticCommand{
		UserID:         *userID,
		SubjectID:      subjectID,
		Days:           *days,
		VersionsPerDay: *versionsPerDay,
		Trend:          *trend,
		Seed:           *seed,
	}
	if err := container.CommandBus.Send(ctx, seedCmd); err != nil {
		logger.Error("failed to generate history", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("seeded subject",
		zap.String("subject_id", subjectID),
		zap.String("trend", *trend),
		zap.Int("revisions", seedCmd.Result))
	fmt.Println(subjectID)
}
