package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"contest_judge/internal/common"
	"contest_judge/internal/domain/model"
	"contest_judge/internal/domain/repository"
	"contest_judge/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type ContestService struct {
	contestRepo repository.ContestRepository
	problemRepo repository.ProblemRepository
	now         func() time.Time
}

func NewContestService(contestRepo repository.ContestRepository, problemRepo repository.ProblemRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo, problemRepo: problemRepo, now: time.Now}
}

type CreateContestRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	StartAt     *time.Time              `json:"start_at"`
	EndAt       *time.Time              `json:"end_at"`
	Visibility  model.ContestVisibility `json:"visibility"`
}

func (s *ContestService) CreateContest(ctx context.Context, userID string, req CreateContestRequest) (*model.Contest, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Description) == "" || req.StartAt == nil || req.EndAt == nil {
		return nil, common.Errorf("title, description, start_at, end_at are required: %w", common.ErrBadRequest)
	}
	if !req.EndAt.After(*req.StartAt) {
		return nil, common.Errorf("end_at must be after start_at: %w", common.ErrValidation)
	}

	visibility := req.Visibility
	switch visibility {
	case "":
		visibility = model.VisibilityPublic
	case model.VisibilityPublic, model.VisibilityPrivate:
	default:
		return nil, common.Errorf("visibility must be public or private: %w", common.ErrValidation)
	}

	now := s.now().UTC()
	contest := &model.Contest{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: req.Description,
		StartAt:     req.StartAt.UTC(),
		EndAt:       req.EndAt.UTC(),
		Problems:    []string{},
		CreatedBy:   userID,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, common.Errorf("failed to create contest: %w", err)
	}

	logger.Ctx(ctx).Info("contest created",
		zap.String("contest_id", contest.ID),
		zap.String("created_by", userID),
		zap.Time("start_at", contest.StartAt),
		zap.Time("end_at", contest.EndAt),
	)
	return contest, nil
}

// ListContests returns all contests, latest start first, without their problem lists.
func (s *ContestService) ListContests(ctx context.Context) ([]model.Contest, error) {
	contests, err := s.contestRepo.List(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list contests: %w", err)
	}
	return contests, nil
}

// GetContest returns the contest with a summary of each attached problem in
// display order. Problems deleted since they were attached are left out.
func (s *ContestService) GetContest(ctx context.Context, contestID string) (*model.ContestDetail, error) {
	contest, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.problemRepo.FindSummaries(ctx, contest.Problems)
	if err != nil {
		return nil, common.Errorf("failed to load contest problems: %w", err)
	}
	return &model.ContestDetail{Contest: *contest, Problems: summaries}, nil
}

func loadContest(ctx context.Context, repo repository.ContestRepository, contestID string) (*model.Contest, error) {
	contest, err := repo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("contest not found: %w", err)
		}
		return nil, common.Errorf("failed to load contest: %w", err)
	}
	return contest, nil
}
