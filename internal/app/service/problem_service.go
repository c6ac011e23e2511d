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

const (
	defaultProblemListLimit = 20
	maxProblemListLimit     = 50
)

type ProblemService struct {
	contestRepo repository.ContestRepository
	problemRepo repository.ProblemRepository
	now         func() time.Time
}

func NewProblemService(contestRepo repository.ContestRepository, problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{contestRepo: contestRepo, problemRepo: problemRepo, now: time.Now}
}

type TestCaseInput struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	IsHidden *bool  `json:"is_hidden,omitempty"` // defaults to true
}

type AddProblemRequest struct {
	Title        string          `json:"title"`
	Statement    string          `json:"statement"`
	InputFormat  string          `json:"input_format"`
	OutputFormat string          `json:"output_format"`
	Constraints  string          `json:"constraints"`
	Samples      []model.Sample  `json:"samples"`
	TestCases    []TestCaseInput `json:"test_cases"`
	// AllowedLangs falls back to the defaults when omitted; an explicit [] allows any language.
	AllowedLangs *[]int          `json:"allowed_langs"`
	TimeLimit    float64         `json:"time_limit"`   // seconds
	MemoryLimit  int             `json:"memory_limit"` // KB
}

// AddProblem creates a problem and attaches it to the contest.
func (s *ProblemService) AddProblem(ctx context.Context, userID, contestID string, req AddProblemRequest) (*model.Problem, error) {
	if _, err := loadContest(ctx, s.contestRepo, contestID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Statement) == "" {
		return nil, common.Errorf("title and statement required: %w", common.ErrBadRequest)
	}
	if req.TimeLimit < 0 || req.MemoryLimit < 0 {
		return nil, common.Errorf("time_limit and memory_limit must not be negative: %w", common.ErrValidation)
	}

	now := s.now().UTC()
	problem := &model.Problem{
		ID:           uuid.NewString(),
		Title:        title,
		Slug:         slug.Make(title),
		Statement:    req.Statement,
		InputFormat:  req.InputFormat,
		OutputFormat: req.OutputFormat,
		Constraints:  req.Constraints,
		Samples:      req.Samples,
		TestCases:    make([]model.TestCase, 0, len(req.TestCases)),
		TimeLimit:    req.TimeLimit,
		MemoryLimit:  req.MemoryLimit,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if problem.Samples == nil {
		problem.Samples = []model.Sample{}
	}
	for _, tc := range req.TestCases {
		hidden := true
		if tc.IsHidden != nil {
			hidden = *tc.IsHidden
		}
		problem.TestCases = append(problem.TestCases, model.TestCase{Input: tc.Input, Output: tc.Output, IsHidden: hidden})
	}
	if req.AllowedLangs == nil {
		problem.AllowedLangs = append([]int(nil), model.DefaultAllowedLangs...)
	} else {
		problem.AllowedLangs = append([]int{}, *req.AllowedLangs...)
	}
	if problem.TimeLimit == 0 {
		problem.TimeLimit = model.DefaultTimeLimit
	}
	if problem.MemoryLimit == 0 {
		problem.MemoryLimit = model.DefaultMemoryLimit
	}

	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	if _, err := s.contestRepo.AppendProblems(ctx, contestID, []string{problem.ID}); err != nil {
		if delErr := s.problemRepo.Delete(ctx, problem.ID); delErr != nil {
			logger.Ctx(ctx).Error("failed to remove orphaned problem", zap.String("problem_id", problem.ID), zap.Error(delErr))
		}
		return nil, common.Errorf("failed to attach problem to contest: %w", err)
	}

	logger.Ctx(ctx).Info("problem added",
		zap.String("contest_id", contestID),
		zap.String("problem_id", problem.ID),
		zap.Int("test_cases", len(problem.TestCases)),
	)
	return problem, nil
}

type AttachResult struct {
	Attached        bool   `json:"attached"`
	ProblemID       string `json:"problem_id"`
	AlreadyAttached bool   `json:"already_attached"`
}

// AttachExisting attaches one problem from the bank. Attaching twice is a no-op.
func (s *ProblemService) AttachExisting(ctx context.Context, contestID, problemID string) (*AttachResult, error) {
	if _, err := loadContest(ctx, s.contestRepo, contestID); err != nil {
		return nil, err
	}
	if _, err := loadProblem(ctx, s.problemRepo, problemID); err != nil {
		return nil, err
	}

	before, err := s.contestRepo.AppendProblems(ctx, contestID, []string{problemID})
	if err != nil {
		return nil, common.Errorf("failed to attach problem: %w", err)
	}
	already := contains(before, problemID)

	logger.Ctx(ctx).Info("problem attached",
		zap.String("contest_id", contestID),
		zap.String("problem_id", problemID),
		zap.Bool("already_attached", already),
	)
	return &AttachResult{Attached: true, ProblemID: problemID, AlreadyAttached: already}, nil
}

type BulkAttachRequest struct {
	ProblemIDs []string `json:"problem_ids"`
}

type BulkAttachResult struct {
	Requested            int      `json:"requested"`
	Valid                int      `json:"valid"`
	AttachedCount        int      `json:"attached_count"`
	AlreadyAttachedCount int      `json:"already_attached_count"`
	InvalidCount         int      `json:"invalid_count"`
	AddedIDs             []string `json:"added_ids"`
	AlreadyAttached      []string `json:"already_attached"`
	InvalidIDs           []string `json:"invalid_ids"`
}

// AttachExistingBulk attaches every existing problem of the request in a single update and reports how
// the request was partitioned.
func (s *ProblemService) AttachExistingBulk(ctx context.Context, contestID string, req BulkAttachRequest) (*BulkAttachResult, error) {
	unique := dedupe(req.ProblemIDs)
	if len(unique) == 0 {
		return nil, common.Errorf("problem_ids (array) is required: %w", common.ErrBadRequest)
	}

	if _, err := loadContest(ctx, s.contestRepo, contestID); err != nil {
		return nil, err
	}
	valid, err := s.problemRepo.FindExistingIDs(ctx, unique)
	if err != nil {
		return nil, common.Errorf("failed to look up problems: %w", err)
	}

	result := &BulkAttachResult{
		Requested:       len(unique),
		Valid:           len(valid),
		AddedIDs:        []string{},
		AlreadyAttached: []string{},
		InvalidIDs:      []string{},
	}
	validSet := toSet(valid)
	for _, id := range unique {
		if !validSet[id] {
			result.InvalidIDs = append(result.InvalidIDs, id)
		}
	}

	if len(valid) > 0 {
		before, err := s.contestRepo.AppendProblems(ctx, contestID, valid)
		if err != nil {
			return nil, common.Errorf("failed to attach problems: %w", err)
		}
		attached := toSet(before)
		for _, id := range valid {
			if attached[id] {
				result.AlreadyAttached = append(result.AlreadyAttached, id)
			} else {
				result.AddedIDs = append(result.AddedIDs, id)
			}
		}
	}
	result.AttachedCount = len(result.AddedIDs)
	result.AlreadyAttachedCount = len(result.AlreadyAttached)
	result.InvalidCount = len(result.InvalidIDs)

	logger.Ctx(ctx).Info("problems bulk attached",
		zap.String("contest_id", contestID),
		zap.Int("requested", result.Requested),
		zap.Int("attached", result.AttachedCount),
		zap.Int("already_attached", result.AlreadyAttachedCount),
		zap.Int("invalid", result.InvalidCount),
	)
	return result, nil
}

// GetProblem returns a contest problem with its hidden test cases removed.
func (s *ProblemService) GetProblem(ctx context.Context, contestID, problemID string) (*model.Problem, error) {
	contest, err := loadContest(ctx, s.contestRepo, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.HasProblem(problemID) {
		return nil, common.Errorf("problem not part of this contest: %w", common.ErrNotFound)
	}
	problem, err := loadProblem(ctx, s.problemRepo, problemID)
	if err != nil {
		return nil, err
	}
	visible := problem.WithoutHiddenTests()
	return &visible, nil
}

type ListProblemsParams struct {
	Query string
	Limit int
	Skip  int
}

// ListProblems searches the problem bank. Limit is clamped to [1, 50] and defaults to 20.
func (s *ProblemService) ListProblems(ctx context.Context, params ListProblemsParams) ([]model.Problem, error) {
	filter := repository.ProblemFilter{
		Query: strings.TrimSpace(params.Query),
		Limit: params.Limit,
		Skip:  params.Skip,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultProblemListLimit
	}
	if filter.Limit > maxProblemListLimit {
		filter.Limit = maxProblemListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	problems, err := s.problemRepo.List(ctx, filter)
	if err != nil {
		return nil, common.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

func loadProblem(ctx context.Context, repo repository.ProblemRepository, problemID string) (*model.Problem, error) {
	problem, err := repo.FindByID(ctx, problemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("problem not found: %w", err)
		}
		return nil, common.Errorf("failed to load problem: %w", err)
	}
	return problem, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
