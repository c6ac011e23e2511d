package handler

import (
	"net/http"

	"contest_judge/internal/api/middleware"
	"contest_judge/internal/app/service"
	"contest_judge/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// RegisterRoutes mounts the per-problem submission routes under /contests.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(userRouter chi.Router) {
		userRouter.Use(middleware.Authenticator)
		userRouter.Post("/{contestID}/problems/{problemID}/submit", h.submit)
		userRouter.Post("/{contestID}/problems/{problemID}/run", h.run)
		userRouter.Get("/{contestID}/problems/{problemID}/status", h.status)
	})
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), userID, chi.URLParam(r, "contestID"), chi.URLParam(r, "problemID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) run(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.RunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.submissionService.RunCustomTest(r.Context(), userID, chi.URLParam(r, "contestID"), chi.URLParam(r, "problemID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	st, err := h.submissionService.GetMyProblemStatus(r.Context(), userID, chi.URLParam(r, "contestID"), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, st)
}
