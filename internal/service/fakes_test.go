package service

import (
	"context"
	"strings"
	"time"

	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
)

type fakeProblemRepo struct {
	problems            map[uint]*model.Problem
	nextID              uint
	batches             [][]model.Problem
	updateSolutionCalls int
	findErr             error
}

func newFakeProblemRepo(problems ...*model.Problem) *fakeProblemRepo {
	f := &fakeProblemRepo{problems: make(map[uint]*model.Problem)}
	for _, p := range problems {
		if p.ID == 0 {
			f.nextID++
			p.ID = f.nextID
		} else if p.ID > f.nextID {
			f.nextID = p.ID
		}
		f.problems[p.ID] = p
	}
	return f
}

func (f *fakeProblemRepo) Create(problem *model.Problem) error {
	f.nextID++
	problem.ID = f.nextID
	f.problems[problem.ID] = problem
	return nil
}

func (f *fakeProblemRepo) CreateBatch(problems []model.Problem) error {
	f.batches = append(f.batches, problems)
	for i := range problems {
		f.nextID++
		problems[i].ID = f.nextID
		p := problems[i]
		f.problems[p.ID] = &p
	}
	return nil
}

func (f *fakeProblemRepo) FindByID(id uint) (*model.Problem, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.problems[id], nil
}

func (f *fakeProblemRepo) FindAll(category, difficulty string) ([]model.Problem, error) {
	var out []model.Problem
	for _, p := range f.problems {
		if category != "" && p.Category != category {
			continue
		}
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProblemRepo) FindRandom(category, difficulty string) (*model.Problem, error) {
	all, _ := f.FindAll(category, difficulty)
	if len(all) == 0 {
		return nil, nil
	}
	return &all[0], nil
}

func (f *fakeProblemRepo) Update(problem *model.Problem) error {
	f.problems[problem.ID] = problem
	return nil
}

func (f *fakeProblemRepo) UpdateSolution(id uint, solution string) error {
	f.updateSolutionCalls++
	if p, ok := f.problems[id]; ok {
		p.Hints.Solution = solution
	}
	return nil
}

func (f *fakeProblemRepo) DeleteBatch(ids []uint) error {
	for _, id := range ids {
		delete(f.problems, id)
	}
	return nil
}

type fakeAttemptRepo struct {
	attempts  []model.Attempt
	createErr error
	queryErr  error
}

func (f *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = uint(len(f.attempts) + 1)
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	attempt.StudentAnswer = strings.TrimSpace(attempt.StudentAnswer)
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptRepo) FindRecentDuplicate(userID, problemID uint, studentAnswer string, window time.Duration) (*model.Attempt, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	cutoff := time.Now().Add(-window)
	var newest *model.Attempt
	for i := range f.attempts {
		a := &f.attempts[i]
		if a.UserID == userID && a.ProblemID == problemID &&
			a.StudentAnswer == strings.TrimSpace(studentAnswer) && a.CreatedAt.After(cutoff) {
			if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
				newest = a
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	cp := *newest
	return &cp, nil
}

func (f *fakeAttemptRepo) HasViewedSolution(userID, problemID uint) (bool, error) {
	if f.queryErr != nil {
		return false, f.queryErr
	}
	for _, a := range f.attempts {
		if a.UserID == userID && a.ProblemID == problemID && a.HintLevel == model.HintLevelSolution {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttemptRepo) FindByUserAndProblem(userID, problemID uint) ([]model.Attempt, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.ProblemID == problemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) FindAllByUser(userID uint, limit int) ([]model.Attempt, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.Attempt
	for i := len(f.attempts) - 1; i >= 0; i-- {
		if f.attempts[i].UserID == userID {
			out = append(out, f.attempts[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) DeleteForProblems(problemIDs []uint) error {
	ids := make(map[uint]bool, len(problemIDs))
	for _, id := range problemIDs {
		ids[id] = true
	}
	var kept []model.Attempt
	for _, a := range f.attempts {
		if !ids[a.ProblemID] {
			kept = append(kept, a)
		}
	}
	f.attempts = kept
	return nil
}

func (f *fakeAttemptRepo) ProblemMetrics(problemID uint) (*repository.ProblemMetrics, error) {
	m := &repository.ProblemMetrics{}
	users := make(map[uint]bool)
	solvers := make(map[uint]bool)
	for _, a := range f.attempts {
		if a.ProblemID != problemID {
			continue
		}
		m.TotalAttempts++
		users[a.UserID] = true
		if a.IsCorrect {
			solvers[a.UserID] = true
		}
		if a.HintLevel != model.HintLevelNone {
			m.HintsRequested++
		}
	}
	m.UniqueStudents = int64(len(users))
	m.SolvedByStudents = int64(len(solvers))
	if m.UniqueStudents > 0 {
		m.SolveRate = float64(m.SolvedByStudents) / float64(m.UniqueStudents) * 100
		m.AverageAttempts = float64(m.TotalAttempts) / float64(m.UniqueStudents)
	}
	return m, nil
}

type hintCacheKeyPair struct {
	problemID uint
	answer    string
}

type fakeHintCacheRepo struct {
	entries    map[hintCacheKeyPair]*model.HintCache
	findErr    error
	saveErr    error
	saveCalls  int
	sweepCalls int
	deletedFor [][]uint
}

func newFakeHintCacheRepo() *fakeHintCacheRepo {
	return &fakeHintCacheRepo{entries: make(map[hintCacheKeyPair]*model.HintCache)}
}

func (f *fakeHintCacheRepo) FindCached(problemID uint, studentAnswer string) (*model.HintCache, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	e, ok := f.entries[hintCacheKeyPair{problemID, strings.TrimSpace(studentAnswer)}]
	if !ok {
		return nil, nil
	}
	e.HitCount++
	e.LastUsed = time.Now()
	cp := *e
	return &cp, nil
}

func (f *fakeHintCacheRepo) Save(problemID uint, studentAnswer, hint string) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	key := hintCacheKeyPair{problemID, strings.TrimSpace(studentAnswer)}
	if _, exists := f.entries[key]; exists {
		return nil
	}
	f.entries[key] = &model.HintCache{
		ProblemID:     problemID,
		StudentAnswer: key.answer,
		Hint:          hint,
		HitCount:      1,
		LastUsed:      time.Now(),
	}
	return nil
}

func (f *fakeHintCacheRepo) DeleteForProblems(problemIDs []uint) error {
	f.deletedFor = append(f.deletedFor, problemIDs)
	for key := range f.entries {
		for _, id := range problemIDs {
			if key.problemID == id {
				delete(f.entries, key)
			}
		}
	}
	return nil
}

func (f *fakeHintCacheRepo) Sweep(retentionDays int) (int64, error) {
	f.sweepCalls++
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var deleted int64
	for key, e := range f.entries {
		if e.HitCount == 1 && e.LastUsed.Before(cutoff) {
			delete(f.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeLLM struct {
	validation ValidationResult
	feedback   TextResult
	hint       TextResult
	solution   TextResult
	steps      TextResult
	drafts     []ProblemDraft
	draftsErr  error

	validateCalls int
	feedbackCalls int
	hintCalls     int
	solutionCalls int
}

func (f *fakeLLM) ValidateAnswer(ctx context.Context, problem *model.Problem, studentAnswer string) ValidationResult {
	f.validateCalls++
	return f.validation
}

func (f *fakeLLM) GenerateFeedback(ctx context.Context, problem *model.Problem, studentAnswer string, isCorrect bool, attemptNumber int) TextResult {
	f.feedbackCalls++
	return f.feedback
}

func (f *fakeLLM) GenerateDynamicHint(ctx context.Context, problem *model.Problem, studentAnswer string, attemptNumber int) TextResult {
	f.hintCalls++
	return f.hint
}

func (f *fakeLLM) GenerateDetailedSolution(ctx context.Context, problem *model.Problem) TextResult {
	f.solutionCalls++
	return f.solution
}

func (f *fakeLLM) GenerateSteps(ctx context.Context, problem *model.Problem) TextResult {
	return f.steps
}

func (f *fakeLLM) GenerateSimilarProblems(ctx context.Context, problem *model.Problem, count int) ([]ProblemDraft, error) {
	if f.draftsErr != nil {
		return nil, f.draftsErr
	}
	return f.drafts, nil
}

type fakePromptRepo struct {
	configs map[string]*model.PromptConfig
	findErr error

	findCalls   int
	upsertCalls int
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{configs: make(map[string]*model.PromptConfig)}
}

func (f *fakePromptRepo) FindActiveByKey(key string) (*model.PromptConfig, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	cfg, ok := f.configs[strings.ToLower(key)]
	if !ok || !cfg.IsActive {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (f *fakePromptRepo) FindAllActive() ([]model.PromptConfig, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []model.PromptConfig
	for _, cfg := range f.configs {
		if cfg.IsActive {
			out = append(out, *cfg)
		}
	}
	return out, nil
}

func (f *fakePromptRepo) Save(config *model.PromptConfig) error {
	config.PromptKey = strings.ToLower(config.PromptKey)
	cp := *config
	f.configs[config.PromptKey] = &cp
	return nil
}

func (f *fakePromptRepo) Upsert(config *model.PromptConfig) error {
	f.upsertCalls++
	return f.Save(config)
}

func (f *fakePromptRepo) Count() (int64, error) {
	return int64(len(f.configs)), nil
}
