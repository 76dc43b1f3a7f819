package handler

import (
	"net/http"
	"strconv"

	"spidyleet/internal/api/middleware"
	"spidyleet/internal/app/service"
	"spidyleet/internal/app/workflow"
	"spidyleet/internal/common"

	"github.com/go-chi/chi/v5"
)

type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

func NewWorkspaceHandler(ws *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: ws}
}

type OpenWorkspaceRequest struct {
	ProblemID string `json:"problem_id" validate:"required"`
}

type EditCodeRequest struct {
	Code string `json:"code"`
}

type ChangeLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

type SetTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=description solution submissions"`
}

func (h *WorkspaceHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.Post("/", h.open)
	r.Route("/{workspaceID}", func(ws chi.Router) {
		ws.Get("/", h.get)
		ws.Delete("/", h.close)
		ws.Put("/code", h.editCode)
		ws.Put("/language", h.changeLanguage)
		ws.Put("/tab", h.setTab)
		ws.Post("/reset", h.reset)
		ws.Post("/run", h.run)       // POST /api/v1/workspaces/{workspaceID}/run
		ws.Post("/submit", h.submit) // POST /api/v1/workspaces/{workspaceID}/submit
		ws.Get("/attempts", h.attempts)
	})
}

func (h *WorkspaceHandler) open(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req OpenWorkspaceRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := common.ValidateInput(req); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	ws, err := h.workspaceService.Open(r.Context(), ownerID, req.ProblemID)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, ws.View())
}

func (h *WorkspaceHandler) get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	ws, err := h.workspaceService.Get(ownerID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, ws.View())
}

func (h *WorkspaceHandler) close(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.workspaceService.Close(ownerID, chi.URLParam(r, "workspaceID")); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkspaceHandler) editCode(w http.ResponseWriter, r *http.Request) {
	var req EditCodeRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	h.respondView(w)(h.workspaceService.EditCode(ownerID, chi.URLParam(r, "workspaceID"), req.Code))
}

func (h *WorkspaceHandler) changeLanguage(w http.ResponseWriter, r *http.Request) {
	var req ChangeLanguageRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := common.ValidateInput(req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	h.respondView(w)(h.workspaceService.ChangeLanguage(ownerID, chi.URLParam(r, "workspaceID"), req.Language))
}

func (h *WorkspaceHandler) setTab(w http.ResponseWriter, r *http.Request) {
	var req SetTabRequest
	if err := common.DecodeJSON(r.Body, &req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if err := common.ValidateInput(req); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	h.respondView(w)(h.workspaceService.SetTab(ownerID, chi.URLParam(r, "workspaceID"), workflow.Tab(req.Tab)))
}

func (h *WorkspaceHandler) reset(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	h.respondView(w)(h.workspaceService.ResetCode(ownerID, chi.URLParam(r, "workspaceID")))
}

func (h *WorkspaceHandler) run(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	resp, err := h.workspaceService.Run(r.Context(), ownerID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *WorkspaceHandler) submit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	resp, err := h.workspaceService.Submit(r.Context(), ownerID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *WorkspaceHandler) attempts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ownerID, _ := middleware.GetUserIDFromContext(r.Context())
	history, err := h.workspaceService.Attempts(r.Context(), ownerID, chi.URLParam(r, "workspaceID"), limit)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"attempts": history})
}

func (h *WorkspaceHandler) respondView(w http.ResponseWriter) func(*service.Workspace, error) {
	return func(ws *service.Workspace, err error) {
		if err != nil {
			common.RespondWithErr(w, err)
			return
		}
		common.RespondWithJSON(w, http.StatusOK, ws.View())
	}
}
