package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contest_judge/internal/api"
	"contest_judge/internal/app/service"
	"contest_judge/internal/common/security"
	"contest_judge/internal/domain/repository"
	"contest_judge/internal/platform/cache"
	"contest_judge/internal/platform/config"
	"contest_judge/internal/platform/database"
	"contest_judge/internal/platform/judge0"
	"contest_judge/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()
	if err := logger.Init(logger.Config{Level: config.AppConfig.LogLevel, Format: config.AppConfig.LogFormat}); err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logger.Sync()
	logger.L().Info("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	logger.L().Info("JWT initialized.")

	// 3. Initialize Postgres (user directory)
	database.Connect()
	defer database.Close()

	// 4. Initialize MongoDB (contests, problems, submissions)
	database.ConnectMongo()
	defer database.CloseMongo()
	mongoDB := database.MongoDatabase()
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureMongoIndexes(indexCtx, mongoDB); err != nil {
		indexCancel()
		logger.L().Fatal("Could not create MongoDB indexes", zap.Error(err))
	}
	indexCancel()
	logger.L().Info("MongoDB indexes ensured.")

	// 5. Initialize Redis (submit cooldown)
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	contestRepo := repository.NewMongoContestRepository(mongoDB)
	problemRepo := repository.NewMongoProblemRepository(mongoDB)
	submissionRepo := repository.NewMongoSubmissionRepository(mongoDB)

	// 7. Initialize Execution Client
	executor := judge0.NewClient(config.AppConfig.Judge0URL, config.AppConfig.Judge0APIKey, config.AppConfig.Judge0Timeout)
	logger.L().Info("Execution client configured.",
		zap.String("url", config.AppConfig.Judge0URL),
		zap.Duration("timeout", config.AppConfig.Judge0Timeout),
	)

	// 8. Initialize Services
	cooldown := cache.NewSubmitCooldown(cache.RDB, config.AppConfig.SubmitCooldown)
	services := api.Services{
		Auth:        service.NewAuthService(userRepo),
		Contest:     service.NewContestService(contestRepo, problemRepo),
		Problem:     service.NewProblemService(contestRepo, problemRepo),
		Submission:  service.NewSubmissionService(contestRepo, problemRepo, submissionRepo, executor, cooldown),
		Leaderboard: service.NewLeaderboardService(contestRepo, submissionRepo, userRepo),
		Executions:  executor,
	}

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(services)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.AppConfig.HTTPWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.L().Info("Server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Could not listen", zap.String("port", config.AppConfig.APIPort), zap.Error(err))
		}
	}()

	<-stop

	logger.L().Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("Server shutdown failed", zap.Error(err))
		return
	}
	logger.L().Info("Server stopped gracefully.")
}
