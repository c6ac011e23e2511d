package service

import (
	"context"

	"contest_judge/internal/app/judge"
	"contest_judge/internal/common"
	"contest_judge/internal/domain/model"
	"contest_judge/internal/domain/repository"
	"contest_judge/internal/platform/logger"

	"go.uber.org/zap"
)

type LeaderboardService struct {
	contestRepo    repository.ContestRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
}

func NewLeaderboardService(
	contestRepo repository.ContestRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
) *LeaderboardService {
	return &LeaderboardService{contestRepo: contestRepo, submissionRepo: submissionRepo, userRepo: userRepo}
}

// GetLeaderboard ranks contestants by distinct problems solved, breaking ties by the earlier time of
// their last first-acceptance. At most judge.MaxLeaderboardRows rows are returned.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, contestID string) ([]model.LeaderboardEntry, error) {
	if _, err := loadContest(ctx, s.contestRepo, contestID); err != nil {
		return nil, err
	}

	firsts, err := s.submissionRepo.FirstAcceptances(ctx, contestID)
	if err != nil {
		return nil, common.Errorf("failed to aggregate submissions: %w", err)
	}
	rows := judge.RankStandings(firsts, judge.MaxLeaderboardRows)
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.UserID
	}
	display, err := s.userRepo.LoadDisplayFields(ctx, ids)
	if err != nil {
		return nil, common.Errorf("failed to load user display fields: %w", err)
	}
	for i := range rows {
		if d, ok := display[rows[i].UserID]; ok {
			rows[i].Fullname = d.Fullname
			rows[i].Avatar = d.Avatar
		}
	}

	logger.Ctx(ctx).Debug("leaderboard computed", zap.String("contest_id", contestID), zap.Int("rows", len(rows)))
	return rows, nil
}
