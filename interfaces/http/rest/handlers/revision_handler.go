package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	cmdbus "promptline/application/commands/bus"
	querybus "promptline/application/queries/bus"

	"promptline/application/commands"
	"promptline/application/queries"
	"promptline/pkg/auth"
	"promptline/pkg/common"
	pkgerrors "promptline/pkg/errors"
	"promptline/pkg/utils"
)

// RevisionHandler handles revision-related HTTP requests
type RevisionHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	errHandler *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *RevisionHandler {
	return &RevisionHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errHandler: errHandler,
		logger:     logger,
	}
}

// AppendRevisionRequest is the request body for appending a revision
type AppendRevisionRequest struct {
	Text      string  `json:"text"`
	ParentID  *string `json:"parent_id,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// AttachScoreRequest is the request body for scoring a revision
type AttachScoreRequest struct {
	Clarity       float64 `json:"clarity"`
	Specificity   float64 `json:"specificity"`
	Actionability float64 `json:"actionability"`
	Structure     float64 `json:"structure"`
	ContextUse    float64 `json:"context_use"`
}

// AppendRevision handles POST /subjects/{subjectID}/revisions
func (h *RevisionHandler) AppendRevision(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	var req AppendRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body", nil))
		return
	}

	cmd := &commands.AppendRevisionCommand{
		UserID:    userCtx.UserID,
		SubjectID: chi.URLParam(r, "subjectID"),
		Text:      req.Text,
		ParentID:  req.ParentID,
	}
	if req.CreatedAt != "" {
		createdAt, err := utils.ParseRFC3339Nano(req.CreatedAt)
		if err != nil {
			h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid created_at timestamp", map[string]interface{}{
				"created_at": req.CreatedAt,
			}))
			return
		}
		cmd.CreatedAt = createdAt
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	rev := cmd.Result
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":               rev.ID().String(),
		"sequence_no":      rev.SequenceNo(),
		"change_type":      rev.ChangeType().String(),
		"change_magnitude": rev.ChangeMagnitude(),
		"created_at":       rev.CreatedAt(),
	})
}

// GetTimeline handles GET /subjects/{subjectID}/revisions
func (h *RevisionHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	query := queries.GetTimelineQuery{
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

// GetRevision handles GET /subjects/{subjectID}/revisions/{revisionID}
func (h *RevisionHandler) GetRevision(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRevisionQuery{
		UserID:     userCtx.UserID,
		SubjectID:  chi.URLParam(r, "subjectID"),
		RevisionID: chi.URLParam(r, "revisionID"),
	})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// AttachScore handles POST /subjects/{subjectID}/revisions/{revisionID}/score
func (h *RevisionHandler) AttachScore(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	var req AttachScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body", nil))
		return
	}

	cmd := &commands.AttachScoreCommand{
		UserID:        userCtx.UserID,
		SubjectID:     chi.URLParam(r, "subjectID"),
		RevisionID:    chi.URLParam(r, "revisionID"),
		Clarity:       req.Clarity,
		Specificity:   req.Specificity,
		Actionability: req.Actionability,
		Structure:     req.Structure,
		ContextUse:    req.ContextUse,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"revision_id": cmd.Result.ID().String(),
		"score":       *cmd.Result.Score(),
	})
}

// GetEdges handles GET /subjects/{subjectID}/edges
func (h *RevisionHandler) GetEdges(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	query := queries.GetEdgesQuery{
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

// parseWindow extracts optional start/end RFC3339 query parameters
func parseWindow(r *http.Request) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := utils.ParseRFC3339Nano(raw)
		if err != nil {
			return nil, nil, pkgerrors.NewValidationError("invalid start timestamp", map[string]interface{}{"start": raw})
		}
		start = &t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := utils.ParseRFC3339Nano(raw)
		if err != nil {
			return nil, nil, pkgerrors.NewValidationError("invalid end timestamp", map[string]interface{}{"end": raw})
		}
		end = &t
	}
	return start, end, nil
}
