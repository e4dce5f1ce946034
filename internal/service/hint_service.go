package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtvinh/mathtutor/internal/cache"
	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/rs/zerolog/log"
)

// HintService serves two-level hints: "steps" guidance scoped to the
// student's specific wrong answer, and the irreversible "solution"
// disclosure. Caching is two-tier: the process-local TTL cache absorbs
// rapid repeats, the durable hint store and the problem's canonical
// solution column absorb everything else.
type HintService interface {
	GetHint(ctx context.Context, problemID uint, req dto.HintRequest) (*dto.HintResponse, error)
}

type hintService struct {
	problemRepo   repository.ProblemRepository
	attemptRepo   repository.AttemptRepository
	hintCacheRepo repository.HintCacheRepository
	llm           LLMService
	volatile      *cache.MemoryCache[string]
}

func NewHintService(
	problemRepo repository.ProblemRepository,
	attemptRepo repository.AttemptRepository,
	hintCacheRepo repository.HintCacheRepository,
	llm LLMService,
	volatile *cache.MemoryCache[string],
) HintService {
	return &hintService{
		problemRepo:   problemRepo,
		attemptRepo:   attemptRepo,
		hintCacheRepo: hintCacheRepo,
		llm:           llm,
		volatile:      volatile,
	}
}

// hintCacheKey scopes volatile entries per wrong answer and attempt, not
// globally per problem.
func hintCacheKey(problemID uint, studentAnswer string, attemptNumber int, level string) string {
	return fmt.Sprintf("%d-%s-%d-%s", problemID, studentAnswer, attemptNumber, level)
}

func (s *hintService) GetHint(ctx context.Context, problemID uint, req dto.HintRequest) (*dto.HintResponse, error) {
	if req.Level != model.HintLevelSteps && req.Level != model.HintLevelSolution {
		return nil, fmt.Errorf("%w: hint level must be either %q or %q", ErrInvalidInput, model.HintLevelSteps, model.HintLevelSolution)
	}
	answer := strings.TrimSpace(req.StudentAnswer)
	if answer == "" {
		return nil, fmt.Errorf("%w: student answer is required for hint generation", ErrInvalidInput)
	}

	problem, err := s.problemRepo.FindByID(problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %d: %w", problemID, err)
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}

	attemptNumber := req.AttemptNumber
	if attemptNumber < 1 {
		attemptNumber = 1
	}

	nextStep := NextStepTryAgain
	if req.Level == model.HintLevelSolution {
		nextStep = NextStepRevealSolution
	}

	key := hintCacheKey(problemID, answer, attemptNumber, req.Level)
	if hint, ok := s.volatile.Get(key); ok {
		log.Info().Str("cacheKey", key).Msg("Returning hint from in-process cache")
		// Every hint request lands in the ledger, cached or not; for the
		// solution level this is also what arms the disclosure lock.
		s.recordHintAttempt(req.UserID, problemID, answer, attemptNumber, req.Level, false)
		return &dto.HintResponse{
			Success:  true,
			Level:    req.Level,
			Hint:     hint,
			NextStep: nextStep,
			Cached:   true,
		}, nil
	}

	var (
		hint        string
		apiCallMade bool
	)

	switch req.Level {
	case model.HintLevelSteps:
		cached, err := s.hintCacheRepo.FindCached(problemID, answer)
		if err != nil {
			// Degrade to generation rather than failing the request.
			log.Error().Err(err).Uint("problemID", problemID).Msg("Hint store lookup failed, generating fresh hint")
		}
		if cached != nil {
			hint = cached.Hint
		} else {
			log.Info().Uint("problemID", problemID).Str("studentAnswer", answer).Msg("Generating dynamic hint")
			result := s.llm.GenerateDynamicHint(ctx, problem, answer, attemptNumber)
			hint = result.Text
			apiCallMade = result.UsedAPI

			if err := s.hintCacheRepo.Save(problemID, answer, hint); err != nil {
				log.Error().Err(err).Uint("problemID", problemID).Msg("Failed to persist hint to cache, continuing")
			}
		}

	case model.HintLevelSolution:
		if strings.TrimSpace(problem.Hints.Solution) != "" {
			hint = problem.Hints.Solution
		} else {
			log.Info().Uint("problemID", problemID).Msg("Generating detailed solution")
			result := s.llm.GenerateDetailedSolution(ctx, problem)
			hint = result.Text
			apiCallMade = result.UsedAPI

			if err := s.problemRepo.UpdateSolution(problemID, hint); err != nil {
				log.Error().Err(err).Uint("problemID", problemID).Msg("Failed to persist canonical solution, continuing")
			}
		}
	}

	s.volatile.Set(key, hint, cache.DefaultTTL)
	s.recordHintAttempt(req.UserID, problemID, answer, attemptNumber, req.Level, apiCallMade)

	return &dto.HintResponse{
		Success:  true,
		Level:    req.Level,
		Hint:     hint,
		NextStep: nextStep,
		Cached:   false,
	}, nil
}

// recordHintAttempt appends the hint request to the ledger. A hint request
// implies the current answer is wrong, so isCorrect is always false; the
// append is best-effort audit.
func (s *hintService) recordHintAttempt(userID, problemID uint, answer string, attemptNumber int, level string, apiCallMade bool) {
	attempt := model.Attempt{
		UserID:        userID,
		ProblemID:     problemID,
		StudentAnswer: answer,
		IsCorrect:     false,
		AttemptNumber: attemptNumber,
		Feedback:      "",
		HintLevel:     level,
		APICallsMade:  model.APICalls{Hint: apiCallMade},
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("problemID", problemID).Str("level", level).Msg("Failed to record hint request, continuing")
	}
}
