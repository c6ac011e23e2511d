package api

import (
	"net/http"

	"contest_judge/internal/api/handler"
	"contest_judge/internal/api/middleware"
	"contest_judge/internal/app/service"
	"contest_judge/internal/common"
	"contest_judge/internal/common/security"
	"contest_judge/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth        *service.AuthService
	Contest     *service.ContestService
	Problem     *service.ProblemService
	Submission  *service.SubmissionService
	Leaderboard *service.LeaderboardService
	Executions  handler.ExecutionFetcher
}

func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	// Grading runs every test case inside the request; the deadline ends just before the write timeout.
	r.Use(chiMiddleware.Timeout(config.AppConfig.RequestTimeout()))

	// Looks for "Authorization: Bearer T" and puts the verified token in the context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		v1.Route("/auth", handler.NewAuthHandler(s.Auth).RegisterRoutes)

		contestHandler := handler.NewContestHandler(s.Contest, s.Problem, s.Leaderboard)
		submissionHandler := handler.NewSubmissionHandler(s.Submission)
		v1.Route("/contests", func(cr chi.Router) {
			contestHandler.RegisterRoutes(cr)
			submissionHandler.RegisterRoutes(cr)
		})

		v1.Route("/problems", handler.NewProblemHandler(s.Problem).RegisterRoutes)

		if s.Executions != nil {
			v1.Route("/executions", handler.NewExecutionHandler(s.Executions).RegisterRoutes)
		}
	})

	return r
}
