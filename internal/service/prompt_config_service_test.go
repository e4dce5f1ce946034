package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtvinh/mathtutor/config"
	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/model"
)

func seedPromptConfig(repo *fakePromptRepo, key, template string) {
	repo.Save(&model.PromptConfig{
		PromptKey:      key,
		DisplayName:    key,
		PromptTemplate: template,
		Model:          config.DefaultModel,
		Temperature:    0.3,
		MaxTokens:      400,
		IsActive:       true,
	})
}

func TestGetConfigCachesWithinTTL(t *testing.T) {
	repo := newFakePromptRepo()
	seedPromptConfig(repo, config.PromptValidateAnswer, "stored template")
	svc := NewPromptConfigService(repo)

	first := svc.GetConfig(config.PromptValidateAnswer)
	assert.Equal(t, "stored template", first.Template)
	assert.Equal(t, 1, repo.findCalls)

	// Second read inside the TTL is served from the cache.
	second := svc.GetConfig(config.PromptValidateAnswer)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetConfigIsCaseInsensitive(t *testing.T) {
	repo := newFakePromptRepo()
	seedPromptConfig(repo, config.PromptValidateAnswer, "stored template")
	svc := NewPromptConfigService(repo)

	svc.GetConfig("ValidateAnswer")
	got := svc.GetConfig("VALIDATEANSWER")
	assert.Equal(t, "stored template", got.Template)
	assert.Equal(t, 1, repo.findCalls)
}

func TestGetConfigFallsBackOnStoreError(t *testing.T) {
	repo := newFakePromptRepo()
	repo.findErr = errors.New("store down")
	svc := NewPromptConfigService(repo)

	got := svc.GetConfig(config.PromptValidateAnswer)
	def := config.DefaultPromptConfigs[config.PromptValidateAnswer]
	assert.Equal(t, def.Template, got.Template)
	assert.Equal(t, def.Model, got.Model)
}

func TestFallbackIsNotCached(t *testing.T) {
	repo := newFakePromptRepo()
	repo.findErr = errors.New("store down")
	svc := NewPromptConfigService(repo)

	svc.GetConfig(config.PromptValidateAnswer)
	assert.Equal(t, 1, repo.findCalls)

	// The store recovers; the very next read must pick up the stored value
	// instead of waiting out a TTL on the fallback.
	repo.findErr = nil
	seedPromptConfig(repo, config.PromptValidateAnswer, "recovered template")

	got := svc.GetConfig(config.PromptValidateAnswer)
	assert.Equal(t, "recovered template", got.Template)
	assert.Equal(t, 2, repo.findCalls)
}

func TestGetConfigFallsBackOnMissingRow(t *testing.T) {
	repo := newFakePromptRepo()
	svc := NewPromptConfigService(repo)

	got := svc.GetConfig(config.PromptDynamicHint)
	def := config.DefaultPromptConfigs[config.PromptDynamicHint]
	assert.Equal(t, def.Template, got.Template)
}

func TestGetConfigUnknownKeyServesGenericDefault(t *testing.T) {
	repo := newFakePromptRepo()
	svc := NewPromptConfigService(repo)

	got := svc.GetConfig("no-such-prompt")
	assert.Equal(t, config.DefaultModel, got.Model)
	assert.NotZero(t, got.MaxTokens)
}

func TestSeedDefaultsPopulatesEmptyStore(t *testing.T) {
	repo := newFakePromptRepo()
	svc := NewPromptConfigService(repo)

	require.NoError(t, svc.SeedDefaults())
	assert.Equal(t, len(config.DefaultPromptConfigs), len(repo.configs))

	// Re-running against a populated store is a no-op.
	before := repo.upsertCalls
	require.NoError(t, svc.SeedDefaults())
	assert.Equal(t, before, repo.upsertCalls)
}

func TestUpdateValidatesFields(t *testing.T) {
	repo := newFakePromptRepo()
	seedPromptConfig(repo, config.PromptValidateAnswer, "t")
	svc := NewPromptConfigService(repo)

	empty := "   "
	_, err := svc.Update(config.PromptValidateAnswer, dto.UpdatePromptRequest{PromptTemplate: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badModel := "gpt-4"
	_, err = svc.Update(config.PromptValidateAnswer, dto.UpdatePromptRequest{Model: &badModel})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badTemp := 2.5
	_, err = svc.Update(config.PromptValidateAnswer, dto.UpdatePromptRequest{Temperature: &badTemp})
	assert.ErrorIs(t, err, ErrInvalidInput)

	badTokens := 0
	_, err = svc.Update(config.PromptValidateAnswer, dto.UpdatePromptRequest{MaxTokens: &badTokens})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateUnknownKey(t *testing.T) {
	svc := NewPromptConfigService(newFakePromptRepo())

	tmpl := "new template"
	_, err := svc.Update("missing", dto.UpdatePromptRequest{PromptTemplate: &tmpl})
	assert.ErrorIs(t, err, ErrPromptNotFound)
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newFakePromptRepo()
	seedPromptConfig(repo, config.PromptValidateAnswer, "old template")
	svc := NewPromptConfigService(repo)

	assert.Equal(t, "old template", svc.GetConfig(config.PromptValidateAnswer).Template)

	tmpl := "new template"
	_, err := svc.Update(config.PromptValidateAnswer, dto.UpdatePromptRequest{PromptTemplate: &tmpl})
	require.NoError(t, err)

	// The cached copy must not survive the write.
	assert.Equal(t, "new template", svc.GetConfig(config.PromptValidateAnswer).Template)
}

func TestResetToDefault(t *testing.T) {
	repo := newFakePromptRepo()
	seedPromptConfig(repo, config.PromptValidateAnswer, "customized template")
	svc := NewPromptConfigService(repo)

	cfg, err := svc.ResetToDefault(config.PromptValidateAnswer)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPromptConfigs[config.PromptValidateAnswer].Template, cfg.PromptTemplate)
}

func TestResetToDefaultUnknownKey(t *testing.T) {
	svc := NewPromptConfigService(newFakePromptRepo())

	_, err := svc.ResetToDefault("no-such-prompt")
	assert.ErrorIs(t, err, ErrPromptNotFound)
}
