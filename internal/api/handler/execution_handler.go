package handler

import (
	"context"
	"net/http"

	"contest_judge/internal/api/middleware"
	"contest_judge/internal/common"
	"contest_judge/internal/domain/model"
	"contest_judge/internal/platform/judge0"

	"github.com/go-chi/chi/v5"
)

// ExecutionFetcher looks up a stored execution on the execution service.
type ExecutionFetcher interface {
	Get(ctx context.Context, token string) (*judge0.Result, error)
}

type ExecutionHandler struct {
	fetcher ExecutionFetcher
}

func NewExecutionHandler(fetcher ExecutionFetcher) *ExecutionHandler {
	return &ExecutionHandler{fetcher: fetcher}
}

type executionResponse struct {
	Token             string        `json:"token"`
	StatusID          int           `json:"status_id"`
	StatusDescription string        `json:"status_description"`
	Verdict           model.Verdict `json:"verdict"`
	TimeMs            int           `json:"time_ms"`
	Stdout            string        `json:"stdout"`
	Stderr            string        `json:"stderr"`
	CompileOutput     string        `json:"compile_output"`
}

func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Get("/{token}", h.getExecution)
}

func (h *ExecutionHandler) getExecution(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	res, err := h.fetcher.Get(r.Context(), token)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	if res.Token == "" {
		res.Token = token
	}
	common.RespondWithJSON(w, http.StatusOK, executionResponse{
		Token:             res.Token,
		StatusID:          res.StatusID,
		StatusDescription: res.StatusDescription,
		Verdict:           model.VerdictFromStatus(res.StatusID),
		TimeMs:            res.TimeMs(),
		Stdout:            model.Truncate(res.Stdout, model.MaxOutputLength),
		Stderr:            model.Truncate(res.Stderr, model.MaxOutputLength),
		CompileOutput:     model.Truncate(res.CompileOutput, model.MaxOutputLength),
	})
}
