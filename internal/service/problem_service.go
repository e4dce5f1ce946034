package service

import (
	"context"
	"fmt"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// ProblemService owns the problem lifecycle, including the cascades the
// caching layers depend on: deleting a problem removes its ledger rows and
// cached hints, and regenerating its solution clears cached hints that were
// derived from the old text.
type ProblemService interface {
	Create(ctx context.Context, req dto.CreateProblemRequest) (*model.Problem, error)
	Update(ctx context.Context, id uint, req dto.UpdateProblemRequest) (*model.Problem, error)
	Delete(ids []uint) (int, error)
	List(category, difficulty string) ([]model.Problem, error)
	GetByID(id uint) (*model.Problem, error)
	GetStudentView(id uint) (*dto.StudentProblemDTO, error)
	GetRandomStudentView(category, difficulty string) (*dto.StudentProblemDTO, error)
	Analytics(problemID uint) (*dto.ProblemAnalyticsResponse, error)
	GenerateSimilar(ctx context.Context, id uint, count int) ([]model.Problem, error)
}

type problemService struct {
	problemRepo   repository.ProblemRepository
	attemptRepo   repository.AttemptRepository
	hintCacheRepo repository.HintCacheRepository
	llm           LLMService
}

func NewProblemService(
	problemRepo repository.ProblemRepository,
	attemptRepo repository.AttemptRepository,
	hintCacheRepo repository.HintCacheRepository,
	llm LLMService,
) ProblemService {
	return &problemService{
		problemRepo:   problemRepo,
		attemptRepo:   attemptRepo,
		hintCacheRepo: hintCacheRepo,
		llm:           llm,
	}
}

func (s *problemService) Create(ctx context.Context, req dto.CreateProblemRequest) (*model.Problem, error) {
	problem := model.Problem{
		Title:            req.Title,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		Difficulty:       req.Difficulty,
		ProblemText:      req.ProblemText,
		AnswerFormat:     req.AnswerFormat,
		CorrectAnswer:    req.CorrectAnswer,
		AlternateAnswers: req.AlternateAnswers,
		Explanation:      req.Explanation,
	}

	if req.PreGenerateHints {
		result := s.llm.GenerateDetailedSolution(ctx, &model.Problem{
			ProblemText:   req.ProblemText,
			CorrectAnswer: req.CorrectAnswer,
			Difficulty:    req.Difficulty,
		})
		problem.Hints.Solution = result.Text
	}

	if err := s.problemRepo.Create(&problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return &problem, nil
}

func (s *problemService) Update(ctx context.Context, id uint, req dto.UpdateProblemRequest) (*model.Problem, error) {
	problem, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		problem.Title = *req.Title
	}
	if req.Category != nil {
		problem.Category = *req.Category
	}
	if req.Subcategory != nil {
		problem.Subcategory = *req.Subcategory
	}
	if req.Difficulty != nil {
		problem.Difficulty = *req.Difficulty
	}
	if req.ProblemText != nil {
		problem.ProblemText = *req.ProblemText
	}
	if req.AnswerFormat != nil {
		problem.AnswerFormat = *req.AnswerFormat
	}
	if req.CorrectAnswer != nil {
		problem.CorrectAnswer = *req.CorrectAnswer
	}
	if req.AlternateAnswers != nil {
		problem.AlternateAnswers = *req.AlternateAnswers
	}
	if req.Explanation != nil {
		problem.Explanation = *req.Explanation
	}

	if req.RegenerateHints {
		result := s.llm.GenerateDetailedSolution(ctx, problem)
		problem.Hints.Solution = result.Text

		// Cached hints were derived from the old problem text.
		if err := s.hintCacheRepo.DeleteForProblems([]uint{id}); err != nil {
			log.Error().Err(err).Uint("problemID", id).Msg("Failed to clear hint cache after regeneration, continuing")
		}
	}

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	return problem, nil
}

// Delete removes problems together with their attempts and cached hints.
func (s *problemService) Delete(ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.hintCacheRepo.DeleteForProblems(ids); err != nil {
		return 0, fmt.Errorf("failed to delete cached hints: %w", err)
	}
	if err := s.attemptRepo.DeleteForProblems(ids); err != nil {
		return 0, fmt.Errorf("failed to delete attempts: %w", err)
	}
	if err := s.problemRepo.DeleteBatch(ids); err != nil {
		return 0, fmt.Errorf("failed to delete problems: %w", err)
	}
	return len(ids), nil
}

func (s *problemService) List(category, difficulty string) ([]model.Problem, error) {
	return s.problemRepo.FindAll(category, difficulty)
}

func (s *problemService) GetByID(id uint) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %d: %w", id, err)
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}
	return problem, nil
}

func (s *problemService) GetStudentView(id uint) (*dto.StudentProblemDTO, error) {
	problem, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toStudentView(problem)
}

func (s *problemService) GetRandomStudentView(category, difficulty string) (*dto.StudentProblemDTO, error) {
	problem, err := s.problemRepo.FindRandom(category, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to pick random problem: %w", err)
	}
	if problem == nil {
		return nil, ErrNoProblems
	}
	return toStudentView(problem)
}

func toStudentView(problem *model.Problem) (*dto.StudentProblemDTO, error) {
	var view dto.StudentProblemDTO
	if err := copier.Copy(&view, problem); err != nil {
		return nil, fmt.Errorf("failed to map problem to student view: %w", err)
	}
	return &view, nil
}

func (s *problemService) Analytics(problemID uint) (*dto.ProblemAnalyticsResponse, error) {
	problem, err := s.GetByID(problemID)
	if err != nil {
		return nil, err
	}

	metrics, err := s.attemptRepo.ProblemMetrics(problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute problem metrics: %w", err)
	}

	return &dto.ProblemAnalyticsResponse{
		Success:          true,
		ProblemID:        problem.ID,
		Title:            problem.Title,
		Category:         problem.Category,
		Difficulty:       problem.Difficulty,
		TotalAttempts:    metrics.TotalAttempts,
		UniqueStudents:   metrics.UniqueStudents,
		SolvedByStudents: metrics.SolvedByStudents,
		SolveRate:        metrics.SolveRate,
		AverageAttempts:  metrics.AverageAttempts,
		HintsRequested:   metrics.HintsRequested,
	}, nil
}

// GenerateSimilar asks the engine for count new problems modeled on an
// existing one and persists the batch. Unlike the student paths, engine
// errors here surface to the (admin) caller.
func (s *problemService) GenerateSimilar(ctx context.Context, id uint, count int) ([]model.Problem, error) {
	template, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	drafts, err := s.llm.GenerateSimilarProblems(ctx, template, count)
	if err != nil {
		return nil, fmt.Errorf("failed to generate similar problems: %w", err)
	}

	problems := make([]model.Problem, 0, len(drafts))
	for _, draft := range drafts {
		if draft.ProblemText == "" || draft.CorrectAnswer == "" {
			log.Warn().Str("title", draft.Title).Msg("Skipping generated problem with missing fields")
			continue
		}
		problems = append(problems, model.Problem{
			Title:            draft.Title,
			Category:         template.Category,
			Subcategory:      template.Subcategory,
			Difficulty:       template.Difficulty,
			ProblemText:      draft.ProblemText,
			AnswerFormat:     template.AnswerFormat,
			CorrectAnswer:    draft.CorrectAnswer,
			AlternateAnswers: draft.AlternateAnswers,
		})
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("generation produced no usable problems")
	}

	if err := s.problemRepo.CreateBatch(problems); err != nil {
		return nil, fmt.Errorf("failed to persist generated problems: %w", err)
	}
	return problems, nil
}
