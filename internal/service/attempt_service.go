package service

import (
	"fmt"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// AttemptService exposes read-only views over the attempt ledger.
type AttemptService interface {
	GetUserHistory(userID uint, limit int) ([]dto.AttemptDTO, error)
	GetStudentProblemStats(userID, problemID uint) (*dto.StudentProblemStats, error)
}

type attemptService struct {
	attemptRepo repository.AttemptRepository
}

func NewAttemptService(attemptRepo repository.AttemptRepository) AttemptService {
	return &attemptService{attemptRepo: attemptRepo}
}

func (s *attemptService) GetUserHistory(userID uint, limit int) ([]dto.AttemptDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attempts for user %d: %w", userID, err)
	}

	dtos := make([]dto.AttemptDTO, 0, len(attempts))
	for _, attempt := range attempts {
		var row dto.AttemptDTO
		if err := copier.Copy(&row, &attempt); err != nil {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to map attempt to DTO, skipping")
			continue
		}
		dtos = append(dtos, row)
	}
	return dtos, nil
}

// GetStudentProblemStats folds one student's ledger for one problem into
// the summary shown on the problem page.
func (s *attemptService) GetStudentProblemStats(userID, problemID uint) (*dto.StudentProblemStats, error) {
	attempts, err := s.attemptRepo.FindByUserAndProblem(userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attempts: %w", err)
	}

	stats := &dto.StudentProblemStats{TotalAttempts: len(attempts)}
	for i, attempt := range attempts {
		if attempt.IsCorrect {
			stats.CorrectAttempts++
			stats.Solved = true
			if i == 0 {
				stats.FirstAttemptCorrect = true
			}
		}
		if attempt.HintLevel != model.HintLevelNone {
			stats.HintsUsed++
		}
	}
	return stats, nil
}
