package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	cmdbus "promptline/application/commands/bus"
	querybus "promptline/application/queries/bus"

	"promptline/application/commands"
	"promptline/application/queries"
	"promptline/pkg/auth"
	"promptline/pkg/common"
	pkgerrors "promptline/pkg/errors"
)

// TemporalHandler handles trend, change-point, and hint HTTP requests
type TemporalHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	errHandler *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewTemporalHandler creates a new temporal handler
func NewTemporalHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *TemporalHandler {
	return &TemporalHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errHandler: errHandler,
		logger:     logger,
	}
}

// GenerateSyntheticRequest is the request body for seeding a history
type GenerateSyntheticRequest struct {
	Days           int    `json:"days"`
	VersionsPerDay int    `json:"versions_per_day"`
	Trend          string `json:"trend"`
	Seed           int64  `json:"seed"`
}

// GetTrend handles GET /subjects/{subjectID}/trend
func (h *TemporalHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	query := queries.GetTrendQuery{
		UserID:    userCtx.UserID,
		SubjectID: chi.URLParam(r, "subjectID"),
	}
	query.Start, query.End, err = parseWindow(r)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetChangePoints handles GET /subjects/{subjectID}/change-points
func (h *TemporalHandler) GetChangePoints(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	threshold := 0.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid threshold", map[string]interface{}{"threshold": raw}))
			return
		}
		threshold = f
	}

	query := queries.GetChangePointsQuery{
		UserID:    userCtx.UserID,
		SubjectID: chi.URLParam(r, "subjectID"),
		Threshold: threshold,
	}
	query.Start, query.End, err = parseWindow(r)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetCausalHints handles GET /subjects/{subjectID}/causal-hints
func (h *TemporalHandler) GetCausalHints(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	query := queries.GetCausalHintsQuery{
		UserID:    userCtx.UserID,
		SubjectID: chi.URLParam(r, "subjectID"),
	}
	query.Start, query.End, err = parseWindow(r)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GenerateSynthetic handles POST /subjects/{subjectID}/synthetic
func (h *TemporalHandler) GenerateSynthetic(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	var req GenerateSyntheticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body", nil))
		return
	}

	cmd := &commands.GenerateSyntheticCommand{
		UserID:         userCtx.UserID,
		SubjectID:      chi.URLParam(r, "subjectID"),
		Days:           req.Days,
		VersionsPerDay: req.VersionsPerDay,
		Trend:          req.Trend,
		Seed:           req.Seed,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"revisions_created": cmd.Result,
		"trend":             req.Trend,
	})
}
