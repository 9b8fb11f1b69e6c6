package handlers

import (
	"encoding/json"
	"net/http"

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

// SubjectHandler handles subject-related HTTP requests
type SubjectHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *querybus.QueryBus
	errHandler *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(commandBus *cmdbus.CommandBus, queryBus *querybus.QueryBus, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *SubjectHandler {
	return &SubjectHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errHandler: errHandler,
		logger:     logger,
	}
}

// CreateSubjectRequest is the request body for creating a subject
type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// CreateSubject handles POST /subjects
func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	var req CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body", nil))
		return
	}

	cmd := &commands.CreateSubjectCommand{
		UserID: userCtx.UserID,
		Name:   req.Name,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         cmd.Result.ID().String(),
		"name":       cmd.Result.Name(),
		"created_at": cmd.Result.CreatedAt(),
	})
}

// ListSubjects handles GET /subjects
func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListSubjectsQuery{UserID: userCtx.UserID})
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	listing, ok := result.(*queries.ListSubjectsResult)
	if !ok {
		h.errHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected query result type", nil))
		return
	}

	params := common.ExtractPaginationParams(r)
	total := len(listing.Subjects)
	start := params.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	common.RespondWithMeta(w, http.StatusOK,
		queries.ListSubjectsResult{Subjects: listing.Subjects[start:end]},
		&common.MetaInfo{
			Timestamp:  utils.NowRFC3339(),
			Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
		},
	)
}
