package repository

import (
	"errors"
	"strings"

	"github.com/dtvinh/mathtutor/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromptConfigRepository interface {
	// FindActiveByKey returns the active config for a (lower-cased) key, or
	// nil when absent.
	FindActiveByKey(key string) (*model.PromptConfig, error)
	FindAllActive() ([]model.PromptConfig, error)
	Save(config *model.PromptConfig) error
	// Upsert inserts the config or fully overwrites the existing row for
	// the same prompt key. Used for seeding and reset-to-default.
	Upsert(config *model.PromptConfig) error
	Count() (int64, error)
}

type promptConfigRepository struct {
	db *gorm.DB
}

func NewPromptConfigRepository(db *gorm.DB) PromptConfigRepository {
	return &promptConfigRepository{db: db}
}

func (r *promptConfigRepository) FindActiveByKey(key string) (*model.PromptConfig, error) {
	var config model.PromptConfig
	err := r.db.
		Where("prompt_key = ? AND is_active = ?", strings.ToLower(key), true).
		First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *promptConfigRepository) FindAllActive() ([]model.PromptConfig, error) {
	var configs []model.PromptConfig
	err := r.db.
		Where("is_active = ?", true).
		Order("prompt_key ASC").
		Find(&configs).Error
	return configs, err
}

func (r *promptConfigRepository) Save(config *model.PromptConfig) error {
	config.PromptKey = strings.ToLower(config.PromptKey)
	return r.db.Save(config).Error
}

func (r *promptConfigRepository) Upsert(config *model.PromptConfig) error {
	config.PromptKey = strings.ToLower(config.PromptKey)
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prompt_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "description", "prompt_template", "model",
			"temperature", "max_tokens", "available_variables", "is_active",
			"updated_at",
		}),
	}).Create(config).Error
}

func (r *promptConfigRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.PromptConfig{}).Count(&count).Error
	return count, err
}
