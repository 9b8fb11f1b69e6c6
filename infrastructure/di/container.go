package di

import (
	"go.uber.org/zap"

	cmdbus "promptline/application/commands/bus"
	"promptline/application/ports"
	querybus "promptline/application/queries/bus"
	"promptline/infrastructure/config"
	"promptline/pkg/auth"
	"promptline/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	SubjectRepo  ports.SubjectRepository
	LineageRepo  ports.LineageRepository
	Lock         ports.SubjectLock
	Publisher    ports.EventPublisher
	CommandBus   *cmdbus.CommandBus
	QueryBus     *querybus.QueryBus
	Cache        ports.Cache
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	RateLimiter  *auth.DistributedRateLimiter
	JWTValidator *auth.JWTValidator
}
