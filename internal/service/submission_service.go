package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/rs/zerolog/log"
)

// duplicateWindow is how long an identical resubmission reuses the earlier
// verdict instead of paying for new generation calls.
const duplicateWindow = 24 * time.Hour

// Next-step actions returned to the client.
const (
	NextStepNextProblem    = "next_problem"
	NextStepTryAgain       = "try_again"
	NextStepRevealSolution = "reveal_solution"
)

// SubmissionService evaluates student answers. The order of checks is
// load-bearing: disclosure lock first, then the duplicate window, and only
// then the engine.
type SubmissionService interface {
	SubmitAnswer(ctx context.Context, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
}

type submissionService struct {
	problemRepo repository.ProblemRepository
	attemptRepo repository.AttemptRepository
	llm         LLMService
}

func NewSubmissionService(
	problemRepo repository.ProblemRepository,
	attemptRepo repository.AttemptRepository,
	llm LLMService,
) SubmissionService {
	return &submissionService{
		problemRepo: problemRepo,
		attemptRepo: attemptRepo,
		llm:         llm,
	}
}

func (s *submissionService) SubmitAnswer(ctx context.Context, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	problem, err := s.problemRepo.FindByID(req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %d: %w", req.ProblemID, err)
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}

	answer := strings.TrimSpace(req.StudentAnswer)
	attemptNumber := req.AttemptNumber
	if attemptNumber < 1 {
		attemptNumber = 1
	}

	// Disclosure lock comes before any cache lookup or generation call.
	viewed, err := s.attemptRepo.HasViewedSolution(req.UserID, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check solution disclosure: %w", err)
	}
	if viewed {
		return nil, ErrSolutionViewed
	}

	duplicate, err := s.attemptRepo.FindRecentDuplicate(req.UserID, req.ProblemID, answer, duplicateWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate attempt: %w", err)
	}

	var (
		apiCalls  model.APICalls
		isCorrect bool
		feedback  string
		reasoning string
	)

	if duplicate != nil {
		// Identical resubmission inside the window: reuse the earlier
		// verdict and feedback verbatim, zero engine calls.
		log.Info().Uint("userID", req.UserID).Uint("problemID", req.ProblemID).Msg("Reusing validation from recent duplicate attempt")
		isCorrect = duplicate.IsCorrect
		feedback = duplicate.Feedback
		reasoning = "Cached from recent attempt"
	} else {
		validation := s.llm.ValidateAnswer(ctx, problem, answer)
		apiCalls.Validation = validation.UsedAPI
		isCorrect = validation.IsCorrect
		reasoning = validation.Reasoning

		feedbackResult := s.llm.GenerateFeedback(ctx, problem, answer, isCorrect, attemptNumber)
		apiCalls.Feedback = feedbackResult.UsedAPI
		feedback = feedbackResult.Text
	}

	// The ledger is best-effort audit: a failed insert is logged and the
	// student still gets their verdict.
	attempt := model.Attempt{
		UserID:        req.UserID,
		ProblemID:     req.ProblemID,
		StudentAnswer: answer,
		IsCorrect:     isCorrect,
		AttemptNumber: attemptNumber,
		Feedback:      feedback,
		HintLevel:     model.HintLevelNone,
		APICallsMade:  apiCalls,
		TimeSpent:     req.TimeSpent,
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Uint("problemID", req.ProblemID).Msg("Failed to record attempt, continuing")
	}

	resp := &dto.SubmitAnswerResponse{
		Success:   true,
		IsCorrect: isCorrect,
		Feedback:  feedback,
		Reasoning: reasoning,
		NextStep:  NextStepTryAgain,
	}
	if isCorrect {
		resp.NextStep = NextStepNextProblem
		resp.CorrectAnswer = &problem.CorrectAnswer
	}
	return resp, nil
}
