package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"contest_judge/internal/common"
	"contest_judge/internal/domain/model"
	"contest_judge/internal/domain/repository"
	"contest_judge/internal/platform/judge0"
)

type fakeContestRepo struct {
	mu        sync.Mutex
	contests  map[string]*model.Contest
	appendErr error
	appends   int
}

func newFakeContestRepo(contests ...*model.Contest) *fakeContestRepo {
	r := &fakeContestRepo{contests: map[string]*model.Contest{}}
	for _, c := range contests {
		r.contests[c.ID] = c
	}
	return r
}

func (r *fakeContestRepo) Create(ctx context.Context, c *model.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contests[c.ID]; ok {
		return common.ErrConflict
	}
	cp := *c
	r.contests[c.ID] = &cp
	return nil
}

func (r *fakeContestRepo) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	cp.Problems = append([]string(nil), c.Problems...)
	return &cp, nil
}

func (r *fakeContestRepo) List(ctx context.Context) ([]model.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Contest, 0, len(r.contests))
	for _, c := range r.contests {
		cp := *c
		cp.Problems = nil
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.After(out[j].StartAt) })
	return out, nil
}

func (r *fakeContestRepo) AppendProblems(ctx context.Context, contestID string, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends++
	if r.appendErr != nil {
		return nil, r.appendErr
	}
	c, ok := r.contests[contestID]
	if !ok {
		return nil, common.ErrNotFound
	}
	before := append([]string(nil), c.Problems...)
	for _, id := range ids {
		if !c.HasProblem(id) {
			c.Problems = append(c.Problems, id)
		}
	}
	return before, nil
}

type fakeProblemRepo struct {
	problems   map[string]*model.Problem
	deleted    []string
	lastFilter repository.ProblemFilter
}

func newFakeProblemRepo(problems ...*model.Problem) *fakeProblemRepo {
	r := &fakeProblemRepo{problems: map[string]*model.Problem{}}
	for _, p := range problems {
		r.problems[p.ID] = p
	}
	return r
}

func (r *fakeProblemRepo) Create(ctx context.Context, p *model.Problem) error {
	r.problems[p.ID] = p
	return nil
}

func (r *fakeProblemRepo) Delete(ctx context.Context, id string) error {
	delete(r.problems, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	p, ok := r.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProblemRepo) FindExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	out := []string{}
	for _, id := range ids {
		if _, ok := r.problems[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) FindSummaries(ctx context.Context, ids []string) ([]model.ProblemSummary, error) {
	out := []model.ProblemSummary{}
	for _, id := range ids {
		if p, ok := r.problems[id]; ok {
			out = append(out, model.ProblemSummary{ID: p.ID, Title: p.Title, AllowedLangs: p.AllowedLangs, TimeLimit: p.TimeLimit, MemoryLimit: p.MemoryLimit})
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) List(ctx context.Context, f repository.ProblemFilter) ([]model.Problem, error) {
	r.lastFilter = f
	out := []model.Problem{}
	for _, p := range r.problems {
		out = append(out, *p)
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	created   []*model.Submission
	firsts    []model.FirstAcceptance
	createErr error
	findErr   error
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.created = append(r.created, sub)
	return nil
}

func (r *fakeSubmissionRepo) FindFirstAccepted(ctx context.Context, userID, contestID, problemID string) (*model.Submission, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var first *model.Submission
	for _, s := range r.created {
		if s.UserID != userID || s.ContestID != contestID || s.ProblemID != problemID || !s.Verdict.IsAccepted() {
			continue
		}
		if first == nil || s.CreatedAt.Before(first.CreatedAt) {
			first = s
		}
	}
	if first == nil {
		return nil, common.ErrNotFound
	}
	return first, nil
}

func (r *fakeSubmissionRepo) FirstAcceptances(ctx context.Context, contestID string) ([]model.FirstAcceptance, error) {
	return r.firsts, nil
}

type fakeUserRepo struct {
	users   map[string]*model.User
	display map[string]model.UserDisplay
	asked   []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}, display: map[string]model.UserDisplay{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) LoadDisplayFields(ctx context.Context, ids []string) (map[string]model.UserDisplay, error) {
	r.asked = append(r.asked, ids...)
	out := map[string]model.UserDisplay{}
	for _, id := range ids {
		if d, ok := r.display[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

// adderRunner behaves like an execution service running a program that prints the sum of two integers.
type adderRunner struct {
	calls  []judge0.Request
	failAt int // 1-based call that fails with a transport error; 0 never
	wrong  bool
}

func (r *adderRunner) Run(ctx context.Context, req judge0.Request) (*judge0.Result, error) {
	r.calls = append(r.calls, req)
	if r.failAt > 0 && len(r.calls) == r.failAt {
		return nil, errors.New("judge0.Run: connection refused")
	}
	sum := 0
	for _, part := range strings.Fields(req.Stdin) {
		n, _ := strconv.Atoi(part)
		sum += n
	}
	if r.wrong {
		sum++
	}
	out := strconv.Itoa(sum)
	status := 3
	if req.ExpectedOutput != nil && *req.ExpectedOutput != out {
		status = 4
	}
	return &judge0.Result{StatusID: status, Stdout: out, Time: "0.010"}, nil
}

type fakeCooldown struct {
	held map[string]bool
	err  error
}

func (c *fakeCooldown) Acquire(ctx context.Context, userID, contestID, problemID string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	key := userID + ":" + contestID + ":" + problemID
	if c.held[key] {
		return false, nil
	}
	if c.held == nil {
		c.held = map[string]bool{}
	}
	c.held[key] = true
	return true, nil
}
