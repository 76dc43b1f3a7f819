package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"spidyleet/internal/api/middleware"
	"spidyleet/internal/app/listing"
	"spidyleet/internal/app/service"
	"spidyleet/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService   *service.ProblemService
	authoringService *service.AuthoringService
}

func NewProblemHandler(ps *service.ProblemService, as *service.AuthoringService) *ProblemHandler {
	return &ProblemHandler{problemService: ps, authoringService: as}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Identify).Get("/", h.listProblems) // GET /api/v1/problems?difficulty=&status=&tag=
	r.Get("/tags", h.listTags)
	r.Get("/{problemID}", h.getProblem)
	r.Get("/{problemID}/starter/{language}", h.downloadStarter)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/solved", h.listSolved)
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Get("/draft", h.emptyDraft)
		adminRouter.Post("/", h.createProblem) // POST /api/v1/problems
	})
}

func filtersFrom(r *http.Request) listing.Filters {
	q := r.URL.Query()
	return listing.Filters{
		Difficulty: q.Get("difficulty"),
		Status:     q.Get("status"),
		Tag:        q.Get("tag"),
	}.Normalize()
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context()) // empty for anonymous callers

	problems, err := h.problemService.ListProblems(r.Context(), userID, filtersFrom(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"problems": problems})
}

func (h *ProblemHandler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.problemService.Tags(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

func (h *ProblemHandler) listSolved(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.problemService.ListSolved(r.Context(), page, pageSize, filtersFrom(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblem(r.Context(), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"problem": problem})
}

func (h *ProblemHandler) downloadStarter(w http.ResponseWriter, r *http.Request) {
	name, code, err := h.problemService.StarterFile(r.Context(), chi.URLParam(r, "problemID"), chi.URLParam(r, "language"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(code))
}

func (h *ProblemHandler) emptyDraft(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, service.EmptyDraft())
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	var draft service.ProblemDraft
	if err := common.DecodeJSON(r.Body, &draft); err != nil {
		common.RespondWithErr(w, err)
		return
	}

	problem, err := h.authoringService.CreateProblem(r.Context(), draft)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"problem": problem})
}
