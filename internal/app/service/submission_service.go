package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"contest_judge/internal/app/judge"
	"contest_judge/internal/common"
	"contest_judge/internal/domain/model"
	"contest_judge/internal/domain/repository"
	"contest_judge/internal/platform/logger"

	"go.uber.org/zap"
)

// Cooldown throttles repeated graded submissions. *cache.SubmitCooldown satisfies it.
type Cooldown interface {
	Acquire(ctx context.Context, userID, contestID, problemID string) (bool, error)
}

const submissionStoreTimeout = 5 * time.Second

type SubmissionService struct {
	contestRepo    repository.ContestRepository
	problemRepo    repository.ProblemRepository
	submissionRepo repository.SubmissionRepository
	runner         judge.Runner
	cooldown       Cooldown // optional
	now            func() time.Time
}

func NewSubmissionService(
	contestRepo repository.ContestRepository,
	problemRepo repository.ProblemRepository,
	submissionRepo repository.SubmissionRepository,
	runner judge.Runner,
	cooldown Cooldown,
) *SubmissionService {
	return &SubmissionService{
		contestRepo:    contestRepo,
		problemRepo:    problemRepo,
		submissionRepo: submissionRepo,
		runner:         runner,
		cooldown:       cooldown,
		now:            time.Now,
	}
}

type SubmitRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
}

type RunRequest struct {
	LanguageID     int     `json:"language_id"`
	SourceCode     string  `json:"source_code"`
	Stdin          string  `json:"stdin"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
}

// authorize runs the checks shared by submit and run, in order: input, contest, window, membership,
// problem, language.
func (s *SubmissionService) authorize(ctx context.Context, contestID, problemID string, languageID int, sourceCode string) (*model.Problem, error) {
	if languageID == 0 || strings.TrimSpace(sourceCode) == "" {
		return nil, common.Errorf("language_id and source_code required: %w", common.ErrBadRequest)
	}
	contest, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if err := contest.CheckWindow(s.now()); err != nil {
		return nil, err
	}
	problem, err := loadProblem(ctx, s.problemRepo, problemID)
	if err != nil {
		return nil, err
	}
	if !contest.HasProblem(problem.ID) {
		return nil, common.Errorf("problem not part of this contest: %w", common.ErrNotFound)
	}
	if !problem.AllowsLanguage(languageID) {
		return nil, common.Errorf("language not allowed for this problem: %w", common.ErrForbidden)
	}
	return problem, nil
}

// Submit grades sourceCode against the problem's test cases and stores the resulting submission.
func (s *SubmissionService) Submit(ctx context.Context, userID, contestID, problemID string, req SubmitRequest) (*model.Submission, error) {
	problem, err := s.authorize(ctx, contestID, problemID, req.LanguageID, req.SourceCode)
	if err != nil {
		return nil, err
	}
	if s.cooldown != nil {
		ok, err := s.cooldown.Acquire(ctx, userID, contestID, problemID)
		if err != nil {
			// Throttling is best effort; a redis outage must not block grading.
			logger.Ctx(ctx).Warn("submit cooldown unavailable", zap.Error(err))
		} else if !ok {
			return nil, common.Errorf("submitting too frequently, please wait: %w", common.ErrTooManyRequests)
		}
	}

	grade := judge.Evaluate(ctx, s.runner, problem, req.LanguageID, req.SourceCode)
	submission := judge.NewSubmission(judge.SubmissionInput{
		UserID:     userID,
		ContestID:  contestID,
		ProblemID:  problemID,
		LanguageID: req.LanguageID,
		SourceCode: req.SourceCode,
	}, grade, s.now().UTC())

	// The verdict is stored even if the request deadline passed while grading.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submissionStoreTimeout)
	defer cancel()
	if err := s.submissionRepo.Create(storeCtx, submission); err != nil {
		return nil, common.Errorf("failed to store submission: %w", err)
	}

	logger.Ctx(ctx).Info("submission evaluated",
		zap.String("submission_id", submission.ID),
		zap.String("user_id", userID),
		zap.String("contest_id", contestID),
		zap.String("problem_id", problemID),
		zap.String("verdict", string(submission.Verdict)),
		zap.Int("passed", submission.Passed),
		zap.Int("total", submission.Total),
		zap.Int("exec_time_ms", submission.ExecTimeMs),
	)
	return submission, nil
}

// RunCustomTest executes the source once against user supplied input. Nothing is stored.
func (s *SubmissionService) RunCustomTest(ctx context.Context, userID, contestID, problemID string, req RunRequest) (*model.RunResult, error) {
	problem, err := s.authorize(ctx, contestID, problemID, req.LanguageID, req.SourceCode)
	if err != nil {
		return nil, err
	}

	result, err := judge.RunOnce(ctx, s.runner, problem, req.LanguageID, req.SourceCode, req.Stdin, req.ExpectedOutput)
	if err != nil {
		logger.Ctx(ctx).Error("custom test execution failed",
			zap.String("user_id", userID),
			zap.String("problem_id", problemID),
			zap.Error(err),
		)
		if errors.Is(err, common.ErrServiceUnavailable) {
			return nil, common.Errorf("custom test execution failed: %w", err)
		}
		return nil, common.Errorf("custom test execution failed: %v: %w", err, common.ErrServiceUnavailable)
	}
	return result, nil
}

// GetMyProblemStatus reports whether the user has an Accepted submission for the problem and when the
// first one was made.
func (s *SubmissionService) GetMyProblemStatus(ctx context.Context, userID, contestID, problemID string) (*model.ProblemStatus, error) {
	contest, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.HasProblem(problemID) {
		return nil, common.Errorf("problem not part of this contest: %w", common.ErrNotFound)
	}

	sub, err := s.submissionRepo.FindFirstAccepted(ctx, userID, contestID, problemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.ProblemStatus{Completed: false}, nil
		}
		return nil, common.Errorf("failed to load problem status: %w", err)
	}
	acceptedAt := sub.CreatedAt
	return &model.ProblemStatus{Completed: true, AcceptedAt: &acceptedAt}, nil
}
