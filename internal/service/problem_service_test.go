package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
)

func newProblemFixture(problems ...*model.Problem) (*fakeProblemRepo, *fakeAttemptRepo, *fakeHintCacheRepo, *fakeLLM, ProblemService) {
	problemRepo := newFakeProblemRepo(problems...)
	attemptRepo := &fakeAttemptRepo{}
	hintCacheRepo := newFakeHintCacheRepo()
	llm := &fakeLLM{
		solution: TextResult{Text: "Generated solution", UsedAPI: true},
	}
	svc := NewProblemService(problemRepo, attemptRepo, hintCacheRepo, llm)
	return problemRepo, attemptRepo, hintCacheRepo, llm, svc
}

func TestCreateProblem(t *testing.T) {
	_, _, _, llm, svc := newProblemFixture()

	problem, err := svc.Create(context.Background(), dto.CreateProblemRequest{
		Title:         "New problem",
		Category:      "algebra",
		Subcategory:   "linear-equations",
		Difficulty:    "algebra-1",
		ProblemText:   "Solve for x: x + 1 = 2",
		AnswerFormat:  "number",
		CorrectAnswer: "1",
	})
	require.NoError(t, err)
	assert.NotZero(t, problem.ID)
	assert.Empty(t, problem.Hints.Solution)
	assert.Zero(t, llm.solutionCalls)
}

func TestCreateProblemPreGeneratesSolution(t *testing.T) {
	_, _, _, llm, svc := newProblemFixture()

	problem, err := svc.Create(context.Background(), dto.CreateProblemRequest{
		Title:            "New problem",
		Category:         "algebra",
		Subcategory:      "linear-equations",
		Difficulty:       "algebra-1",
		ProblemText:      "Solve for x: x + 1 = 2",
		AnswerFormat:     "number",
		CorrectAnswer:    "1",
		PreGenerateHints: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Generated solution", problem.Hints.Solution)
	assert.Equal(t, 1, llm.solutionCalls)
}

func TestUpdateProblemPartialFields(t *testing.T) {
	original := testProblem()
	_, _, hintCache, llm, svc := newProblemFixture(original)

	title := "Renamed"
	updated, err := svc.Update(context.Background(), original.ID, dto.UpdateProblemRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, original.ProblemText, updated.ProblemText)
	assert.Zero(t, llm.solutionCalls)
	assert.Empty(t, hintCache.deletedFor)
}

func TestUpdateProblemRegenerateHints(t *testing.T) {
	original := testProblem()
	original.Hints.Solution = "old solution"
	_, _, hintCache, llm, svc := newProblemFixture(original)
	require.NoError(t, hintCache.Save(original.ID, "5", "stale hint"))

	text := "Solve for x: 3x = 12"
	updated, err := svc.Update(context.Background(), original.ID, dto.UpdateProblemRequest{
		ProblemText:     &text,
		RegenerateHints: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Generated solution", updated.Hints.Solution)
	assert.Equal(t, 1, llm.solutionCalls)
	// The cached hints for the old text are gone.
	require.Len(t, hintCache.deletedFor, 1)
	assert.Equal(t, []uint{original.ID}, hintCache.deletedFor[0])
}

func TestUpdateProblemNotFound(t *testing.T) {
	_, _, _, _, svc := newProblemFixture()

	title := "x"
	_, err := svc.Update(context.Background(), 99, dto.UpdateProblemRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProblemNotFound)
}

func TestDeleteCascades(t *testing.T) {
	p1 := testProblem()
	p2 := testProblem()
	p2.ID = 2
	problemRepo, attemptRepo, hintCache, _, svc := newProblemFixture(p1, p2)

	require.NoError(t, attemptRepo.Create(&model.Attempt{UserID: 1, ProblemID: 1, StudentAnswer: "5"}))
	require.NoError(t, attemptRepo.Create(&model.Attempt{UserID: 1, ProblemID: 2, StudentAnswer: "5"}))
	require.NoError(t, hintCache.Save(1, "5", "h"))

	deleted, err := svc.Delete([]uint{1})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	// Problem 1 and its dependents are gone, problem 2 untouched.
	assert.Nil(t, problemRepo.problems[1])
	assert.NotNil(t, problemRepo.problems[2])
	assert.Len(t, attemptRepo.attempts, 1)
	assert.Equal(t, uint(2), attemptRepo.attempts[0].ProblemID)
	cached, _ := hintCache.FindCached(1, "5")
	assert.Nil(t, cached)
}

func TestGetRandomStudentViewEmpty(t *testing.T) {
	_, _, _, _, svc := newProblemFixture()

	_, err := svc.GetRandomStudentView("algebra", "")
	assert.ErrorIs(t, err, ErrNoProblems)
}

func TestStudentViewHidesAnswers(t *testing.T) {
	problem := testProblem()
	problem.Hints.Solution = "secret solution"
	_, _, _, _, svc := newProblemFixture(problem)

	view, err := svc.GetStudentView(problem.ID)
	require.NoError(t, err)
	assert.Equal(t, problem.Title, view.Title)
	assert.Equal(t, problem.ProblemText, view.ProblemText)
	// The DTO has no answer or solution fields at all; spot-check identity.
	assert.Equal(t, problem.ID, view.ID)
}

func TestAnalytics(t *testing.T) {
	problem := testProblem()
	_, attemptRepo, _, _, svc := newProblemFixture(problem)

	require.NoError(t, attemptRepo.Create(&model.Attempt{UserID: 1, ProblemID: 1, StudentAnswer: "5", IsCorrect: false}))
	require.NoError(t, attemptRepo.Create(&model.Attempt{UserID: 1, ProblemID: 1, StudentAnswer: "4", IsCorrect: true}))

	analytics, err := svc.Analytics(problem.ID)
	require.NoError(t, err)
	assert.Equal(t, problem.Title, analytics.Title)
	assert.Equal(t, int64(2), analytics.TotalAttempts)
	assert.Equal(t, int64(1), analytics.UniqueStudents)
	assert.InDelta(t, 100.0, analytics.SolveRate, 0.001)
}

func TestGenerateSimilarInheritsTaxonomy(t *testing.T) {
	template := testProblem()
	problemRepo, _, _, llm, svc := newProblemFixture(template)
	llm.drafts = []ProblemDraft{
		{Title: "Variant A", ProblemText: "Solve for x: 2x + 5 = 13", CorrectAnswer: "4"},
		{Title: "Variant B", ProblemText: "Solve for x: 3x - 1 = 8", CorrectAnswer: "3", AlternateAnswers: []string{"x=3"}},
	}

	created, err := svc.GenerateSimilar(context.Background(), template.ID, 2)
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, p := range created {
		assert.Equal(t, template.Category, p.Category)
		assert.Equal(t, template.Subcategory, p.Subcategory)
		assert.Equal(t, template.Difficulty, p.Difficulty)
		assert.Equal(t, template.AnswerFormat, p.AnswerFormat)
	}
	require.Len(t, problemRepo.batches, 1)
}

func TestGenerateSimilarSkipsIncompleteDrafts(t *testing.T) {
	template := testProblem()
	_, _, _, llm, svc := newProblemFixture(template)
	llm.drafts = []ProblemDraft{
		{Title: "ok", ProblemText: "Solve", CorrectAnswer: "1"},
		{Title: "missing answer", ProblemText: "Solve"},
	}

	created, err := svc.GenerateSimilar(context.Background(), template.ID, 2)
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestGenerateSimilarSurfacesEngineError(t *testing.T) {
	template := testProblem()
	_, _, _, llm, svc := newProblemFixture(template)
	llm.draftsErr = errors.New("engine down")

	_, err := svc.GenerateSimilar(context.Background(), template.ID, 2)
	assert.Error(t, err)
}
