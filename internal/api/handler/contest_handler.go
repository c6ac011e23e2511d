package handler

import (
	"net/http"

	"contest_judge/internal/api/middleware"
	"contest_judge/internal/app/service"
	"contest_judge/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService     *service.ContestService
	problemService     *service.ProblemService
	leaderboardService *service.LeaderboardService
}

func NewContestHandler(cs *service.ContestService, ps *service.ProblemService, ls *service.LeaderboardService) *ContestHandler {
	return &ContestHandler{contestService: cs, problemService: ps, leaderboardService: ls}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)
	r.Get("/{contestID}", h.getContest)
	r.Get("/{contestID}/leaderboard", h.getLeaderboard)

	r.Group(func(userRouter chi.Router) {
		userRouter.Use(middleware.Authenticator)
		userRouter.Get("/{contestID}/problems/{problemID}", h.getProblem)
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createContest)
		adminRouter.Post("/{contestID}/problems", h.addProblem)
		adminRouter.Post("/{contestID}/problems/attach", h.attachProblems)
		adminRouter.Post("/{contestID}/problems/{problemID}/attach", h.attachProblem)
	})
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListContests(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateContestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contest, err := h.contestService.CreateContest(r.Context(), userID, req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.GetContest(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboardService.GetLeaderboard(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *ContestHandler) addProblem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.AddProblemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	problem, err := h.problemService.AddProblem(r.Context(), userID, chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ContestHandler) attachProblem(w http.ResponseWriter, r *http.Request) {
	res, err := h.problemService.AttachExisting(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *ContestHandler) attachProblems(w http.ResponseWriter, r *http.Request) {
	var req service.BulkAttachRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.problemService.AttachExistingBulk(r.Context(), chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *ContestHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetProblem(r.Context(), chi.URLParam(r, "contestID"), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
