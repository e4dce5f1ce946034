package service

import (
	"fmt"

	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/rs/zerolog/log"
)

// DefaultRetentionDays is how long a never-rehit cached hint survives before
// a sweep removes it. Entries with more than one hit are kept indefinitely.
const DefaultRetentionDays = 90

// MaintenanceService runs periodic housekeeping over the hint store. It is
// invoked both by the daily background sweep and by the admin endpoint.
type MaintenanceService interface {
	SweepHintCache(retentionDays int) (int64, error)
}

type maintenanceService struct {
	hintCacheRepo repository.HintCacheRepository
}

func NewMaintenanceService(hintCacheRepo repository.HintCacheRepository) MaintenanceService {
	return &maintenanceService{hintCacheRepo: hintCacheRepo}
}

func (s *maintenanceService) SweepHintCache(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	deleted, err := s.hintCacheRepo.Sweep(retentionDays)
	if err != nil {
		return 0, fmt.Errorf("hint cache sweep failed: %w", err)
	}
	log.Info().Int64("deleted", deleted).Int("retentionDays", retentionDays).Msg("Hint cache sweep completed")
	return deleted, nil
}
