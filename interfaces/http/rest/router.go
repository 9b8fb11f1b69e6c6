// Package rest wires the HTTP surface: routing, middleware, and the
// JSON handlers over the command and query buses.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	cmdbus "promptline/application/commands/bus"
	querybus "promptline/application/queries/bus"
	"promptline/infrastructure/config"
	"promptline/interfaces/http/rest/handlers"
	"promptline/interfaces/http/rest/middleware"
	"promptline/pkg/auth"
	"promptline/pkg/common"
	pkgerrors "promptline/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	validator  *auth.JWTValidator
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		validator:  validator,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)

	errHandler := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())
	subjectHandler := handlers.NewSubjectHandler(rt.commandBus, rt.queryBus, errHandler, rt.logger)
	revisionHandler := handlers.NewRevisionHandler(rt.commandBus, rt.queryBus, errHandler, rt.logger)
	temporalHandler := handlers.NewTemporalHandler(rt.commandBus, rt.queryBus, errHandler, rt.logger)

	ipLimiter := auth.NewIPRateLimiter(rt.cfg.RateLimitPerMinute)
	userLimiter := auth.NewUserRateLimiter(rt.cfg.RateLimitPerMinute * 2)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, ipLimiter, userLimiter))

		r.Route("/subjects", func(r chi.Router) {
			r.Post("/", subjectHandler.CreateSubject)
			r.Get("/", subjectHandler.ListSubjects)

			r.Route("/{subjectID}", func(r chi.Router) {
				r.Post("/revisions", revisionHandler.AppendRevision)
				r.Get("/revisions", revisionHandler.GetTimeline)
				r.Get("/revisions/{revisionID}", revisionHandler.GetRevision)
				r.Post("/revisions/{revisionID}/score", revisionHandler.AttachScore)
				r.Get("/edges", revisionHandler.GetEdges)

				r.Get("/trend", temporalHandler.GetTrend)
				r.Get("/change-points", temporalHandler.GetChangePoints)
				r.Get("/causal-hints", temporalHandler.GetCausalHints)
				r.Post("/synthetic", temporalHandler.GenerateSynthetic)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
