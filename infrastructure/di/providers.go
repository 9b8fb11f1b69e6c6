package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"promptline/application/commands"
	cmdbus "promptline/application/commands/bus"
	cmdhandlers "promptline/application/commands/handlers"
	"promptline/application/ports"
	"promptline/application/queries"
	querybus "promptline/application/queries/bus"
	queryhandlers "promptline/application/queries/handlers"
	domaincfg "promptline/domain/config"
	"promptline/domain/temporal"
	"promptline/infrastructure/config"
	"promptline/infrastructure/messaging/eventbridge"
	dynamostore "promptline/infrastructure/persistence/dynamodb"
	"promptline/infrastructure/persistence/memory"
	"promptline/pkg/auth"
	"promptline/pkg/observability"
)

// ProvideLogger creates a logger for the current environment
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig exposes the domain thresholds from app config
func ProvideDomainConfig(cfg *config.Config) *domaincfg.DomainConfig {
	return cfg.Domain
}

// ProvideAWSConfig loads AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideSubjectRepository picks the configured storage backend
func ProvideSubjectRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SubjectRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewSubjectRepository()
	}
	return dynamostore.NewSubjectRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideLineageRepository picks the configured storage backend
func ProvideLineageRepository(client *awsdynamodb.Client, cfg *config.Config, dcfg *domaincfg.DomainConfig, logger *zap.Logger) ports.LineageRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewLineageRepository(dcfg)
	}
	return dynamostore.NewLineageRepository(client, cfg.DynamoDBTable, dcfg, logger)
}

// ProvideSubjectLock picks the lock matching the storage backend
func ProvideSubjectLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SubjectLock {
	if cfg.StorageBackend == "memory" {
		return memory.NewSubjectLock()
	}
	timeout := time.Duration(cfg.LockTimeoutMs) * time.Millisecond
	return dynamostore.NewSubjectLock(client, cfg.DynamoDBTable, timeout, logger)
}

// ProvideEventPublisher creates the event publisher, or a no-op when
// no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" || cfg.StorageBackend == "memory" {
		return eventbridge.NewNoopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideTracer creates the X-Ray tracer, or nil when tracing is off
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("promptline")
}

// ProvideMetrics creates the CloudWatch metrics sink
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics("", nil)
	}
	return observability.NewMetrics(fmt.Sprintf("Promptline/%s", cfg.Environment), client)
}

// ProvideDistributedRateLimiter creates the API rate limiter
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	return auth.NewDistributedRateLimiter(client, cfg.DynamoDBTable, cfg.RateLimitPerMinute, time.Minute, "API")
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	})
}

// ProvideTrendDetector creates the trend detector
func ProvideTrendDetector(dcfg *domaincfg.DomainConfig) *temporal.TrendDetector {
	return temporal.NewTrendDetector(dcfg)
}

// ProvideChangePointDetector creates the change-point detector
func ProvideChangePointDetector(dcfg *domaincfg.DomainConfig) *temporal.ChangePointDetector {
	return temporal.NewChangePointDetector(dcfg)
}

// ProvideCausalHintEngine creates the hint engine
func ProvideCausalHintEngine() *temporal.CausalHintEngine {
	return temporal.NewCausalHintEngine()
}

// ProvideCommandBus creates a command bus with every handler registered
func ProvideCommandBus(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	lock ports.SubjectLock,
	publisher ports.EventPublisher,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
	dcfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *cmdbus.CommandBus {
	commandBus := cmdbus.NewCommandBus()

	createSubject := cmdhandlers.NewCreateSubjectHandler(subjectRepo, publisher, logger)
	commandBus.Register(&commands.CreateSubjectCommand{}, cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
		c, ok := cmd.(*commands.CreateSubjectCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return createSubject.Handle(ctx, c)
	}))

	appendRevision := cmdhandlers.NewAppendRevisionHandler(subjectRepo, lineageRepo, lock, publisher, dcfg, logger)
	commandBus.Register(&commands.AppendRevisionCommand{}, cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
		c, ok := cmd.(*commands.AppendRevisionCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return appendRevision.Handle(ctx, c)
	}))

	attachScore := cmdhandlers.NewAttachScoreHandler(subjectRepo, lineageRepo, lock, publisher, dcfg, logger)
	commandBus.Register(&commands.AttachScoreCommand{}, cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
		c, ok := cmd.(*commands.AttachScoreCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return attachScore.Handle(ctx, c)
	}))

	generateSynthetic := cmdhandlers.NewGenerateSyntheticHandler(subjectRepo, lineageRepo, lock, dcfg, logger)
	commandBus.Register(&commands.GenerateSyntheticCommand{}, cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
		c, ok := cmd.(*commands.GenerateSyntheticCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return generateSynthetic.Handle(ctx, c)
	}))

	if metrics != nil {
		commandBus.Use(commandMetrics(metrics))
	}
	if tracer != nil {
		commandBus.Use(commandTracing(tracer))
	}

	return commandBus
}

// commandMetrics times each command and counts failures per command type
func commandMetrics(metrics *observability.Metrics) cmdbus.Middleware {
	return func(next cmdbus.CommandHandler) cmdbus.CommandHandler {
		return cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
			label := fmt.Sprintf("%T", cmd)
			timer := metrics.StartTimer("CommandDuration", label)
			defer timer.Stop()

			err := next.Handle(ctx, cmd)
			if err != nil {
				metrics.Increment("CommandErrors", label)
			}
			return err
		})
	}
}

// commandTracing wraps each command handler in an X-Ray subsegment
// named after the command type
func commandTracing(tracer *observability.Tracer) cmdbus.Middleware {
	return func(next cmdbus.CommandHandler) cmdbus.CommandHandler {
		return cmdbus.CommandHandlerFunc(func(ctx context.Context, cmd cmdbus.Command) error {
			return tracer.TraceOperation(ctx, fmt.Sprintf("command.%T", cmd), func(ctx context.Context) error {
				return next.Handle(ctx, cmd)
			})
		})
	}
}

// ProvideQueryBus creates a query bus with every handler registered.
// Analysis queries are cached briefly; timeline reads stay fresh.
func ProvideQueryBus(
	subjectRepo ports.SubjectRepository,
	lineageRepo ports.LineageRepository,
	trendDetector *temporal.TrendDetector,
	changePointDetector *temporal.ChangePointDetector,
	hintEngine *temporal.CausalHintEngine,
	cache ports.Cache,
	dcfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, 30)

	timeline := queryhandlers.NewGetTimelineHandler(subjectRepo, lineageRepo, logger)
	queryBus.Register(queries.GetTimelineQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return timeline.Handle(ctx, q.(queries.GetTimelineQuery))
	}))

	edges := queryhandlers.NewGetEdgesHandler(subjectRepo, lineageRepo, logger)
	queryBus.Register(queries.GetEdgesQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return edges.Handle(ctx, q.(queries.GetEdgesQuery))
	}))

	revision := queryhandlers.NewGetRevisionHandler(subjectRepo, lineageRepo, logger)
	queryBus.Register(queries.GetRevisionQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return revision.Handle(ctx, q.(queries.GetRevisionQuery))
	}))

	subjects := queryhandlers.NewListSubjectsHandler(subjectRepo, logger)
	queryBus.Register(queries.ListSubjectsQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return subjects.Handle(ctx, q.(queries.ListSubjectsQuery))
	}))

	trend := queryhandlers.NewGetTrendHandler(subjectRepo, lineageRepo, trendDetector, logger)
	queryBus.Register(queries.GetTrendQuery{}, caching.Wrap(querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return trend.Handle(ctx, q.(queries.GetTrendQuery))
	})))

	changePoints := queryhandlers.NewGetChangePointsHandler(subjectRepo, lineageRepo, changePointDetector, dcfg, logger)
	queryBus.Register(queries.GetChangePointsQuery{}, caching.Wrap(querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return changePoints.Handle(ctx, q.(queries.GetChangePointsQuery))
	})))

	hints := queryhandlers.NewGetCausalHintsHandler(subjectRepo, lineageRepo, hintEngine, logger)
	queryBus.Register(queries.GetCausalHintsQuery{}, caching.Wrap(querybus.QueryHandlerFunc(func(ctx context.Context, q querybus.Query) (interface{}, error) {
		return hints.Handle(ctx, q.(queries.GetCausalHintsQuery))
	})))

	return queryBus
}

// ProvideCache creates the in-memory query cache
func ProvideCache() ports.Cache {
	return NewInMemoryCache()
}
