package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dtvinh/mathtutor/config"
	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/rs/zerolog/log"
)

// PromptSettings is the resolved, runtime view of one prompt configuration:
// what the LLM service actually needs to make a call.
type PromptSettings struct {
	Template    string
	Model       string
	Temperature float64
	MaxTokens   int
}

// PromptConfigService serves prompt configurations from a TTL cache over
// the database, falling back to the compiled-in defaults when the database
// row is missing or unreachable. It also carries the admin management
// surface (list/update/reset), which invalidates the cache on every write.
type PromptConfigService interface {
	// GetConfig never fails: worst case it returns the static default.
	GetConfig(key string) PromptSettings
	// SeedDefaults populates the table from the static defaults when empty.
	SeedDefaults() error

	List() ([]model.PromptConfig, error)
	Get(key string) (*model.PromptConfig, error)
	Update(key string, req dto.UpdatePromptRequest) (*model.PromptConfig, error)
	ResetToDefault(key string) (*model.PromptConfig, error)
}

const promptCacheTTL = 5 * time.Minute

type promptConfigService struct {
	repo repository.PromptConfigRepository

	mu        sync.Mutex
	data      map[string]PromptSettings
	lastFetch time.Time
	ttl       time.Duration
}

func NewPromptConfigService(repo repository.PromptConfigRepository) PromptConfigService {
	return &promptConfigService{
		repo: repo,
		data: make(map[string]PromptSettings),
		ttl:  promptCacheTTL,
	}
}

// GetConfig serves from the cache while it is fresh and holds the key. The
// freshness timestamp is global to the whole cache, not per key: a fetch
// for any key renews all of them. Coarse, but it bounds config-store reads
// to one per TTL in the steady state.
func (s *promptConfigService) GetConfig(key string) PromptSettings {
	key = strings.ToLower(key)

	s.mu.Lock()
	if !s.lastFetch.IsZero() && time.Since(s.lastFetch) < s.ttl {
		if settings, ok := s.data[key]; ok {
			s.mu.Unlock()
			return settings
		}
	}
	s.mu.Unlock()

	cfg, err := s.repo.FindActiveByKey(key)
	if err != nil {
		log.Error().Err(err).Str("promptKey", key).Msg("Failed to fetch prompt config, using default")
		return s.defaultFor(key)
	}
	if cfg == nil {
		log.Warn().Str("promptKey", key).Msg("Prompt config not found, using default")
		return s.defaultFor(key)
	}

	settings := PromptSettings{
		Template:    cfg.PromptTemplate,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	s.mu.Lock()
	s.data[key] = settings
	s.lastFetch = time.Now()
	s.mu.Unlock()

	return settings
}

// defaultFor returns the static fallback. Deliberately not cached, so a
// recovering store is picked up on the next call instead of after a TTL.
func (s *promptConfigService) defaultFor(key string) PromptSettings {
	if def, ok := config.DefaultPromptConfigs[key]; ok {
		return PromptSettings{
			Template:    def.Template,
			Model:       def.Model,
			Temperature: def.Temperature,
			MaxTokens:   def.MaxTokens,
		}
	}
	log.Error().Str("promptKey", key).Msg("No static default for prompt key")
	return PromptSettings{Model: config.DefaultModel, Temperature: 0.7, MaxTokens: 500}
}

func (s *promptConfigService) invalidate() {
	s.mu.Lock()
	s.data = make(map[string]PromptSettings)
	s.lastFetch = time.Time{}
	s.mu.Unlock()
}

func (s *promptConfigService) SeedDefaults() error {
	count, err := s.repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count prompt configs: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Info().Int("configs", len(config.DefaultPromptConfigs)).Msg("Seeding prompt configurations from defaults")
	for key, def := range config.DefaultPromptConfigs {
		row := defaultToModel(key, def)
		if err := s.repo.Upsert(&row); err != nil {
			return fmt.Errorf("failed to seed prompt config %q: %w", key, err)
		}
	}
	return nil
}

func (s *promptConfigService) List() ([]model.PromptConfig, error) {
	return s.repo.FindAllActive()
}

func (s *promptConfigService) Get(key string) (*model.PromptConfig, error) {
	cfg, err := s.repo.FindActiveByKey(key)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrPromptNotFound
	}
	return cfg, nil
}

func (s *promptConfigService) Update(key string, req dto.UpdatePromptRequest) (*model.PromptConfig, error) {
	cfg, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	if req.PromptTemplate != nil {
		if strings.TrimSpace(*req.PromptTemplate) == "" {
			return nil, fmt.Errorf("%w: prompt template must be a non-empty string", ErrInvalidInput)
		}
		cfg.PromptTemplate = *req.PromptTemplate
	}
	if req.Model != nil {
		if !config.IsValidModel(*req.Model) {
			return nil, fmt.Errorf("%w: invalid model, must be one of: %s", ErrInvalidInput, strings.Join(config.ValidModels, ", "))
		}
		cfg.Model = *req.Model
	}
	if req.Temperature != nil {
		if *req.Temperature < 0 || *req.Temperature > 2 {
			return nil, fmt.Errorf("%w: temperature must be between 0 and 2", ErrInvalidInput)
		}
		cfg.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		if *req.MaxTokens < 1 || *req.MaxTokens > 10000 {
			return nil, fmt.Errorf("%w: max tokens must be between 1 and 10000", ErrInvalidInput)
		}
		cfg.MaxTokens = *req.MaxTokens
	}

	if err := s.repo.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save prompt config: %w", err)
	}
	s.invalidate()
	return cfg, nil
}

func (s *promptConfigService) ResetToDefault(key string) (*model.PromptConfig, error) {
	key = strings.ToLower(key)
	def, ok := config.DefaultPromptConfigs[key]
	if !ok {
		return nil, ErrPromptNotFound
	}

	row := defaultToModel(key, def)
	if err := s.repo.Upsert(&row); err != nil {
		return nil, fmt.Errorf("failed to reset prompt config: %w", err)
	}
	s.invalidate()
	return s.Get(key)
}

func defaultToModel(key string, def config.PromptDefault) model.PromptConfig {
	return model.PromptConfig{
		PromptKey:          strings.ToLower(key),
		DisplayName:        def.DisplayName,
		Description:        def.Description,
		PromptTemplate:     def.Template,
		Model:              def.Model,
		Temperature:        def.Temperature,
		MaxTokens:          def.MaxTokens,
		AvailableVariables: def.Variables,
		IsActive:           true,
	}
}
