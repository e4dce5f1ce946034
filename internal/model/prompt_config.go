package model

import (
	"time"

	"gorm.io/datatypes"
)

// PromptConfig is an admin-tunable generation configuration for one prompt
// key. Rows are seeded from the compiled-in defaults and only ever
// soft-deactivated, never hard-deleted.
type PromptConfig struct {
	ID                 uint                        `gorm:"primarykey" json:"id"`
	PromptKey          string                      `json:"prompt_key" gorm:"not null;uniqueIndex"` // stored lower-case
	DisplayName        string                      `json:"display_name" gorm:"not null"`
	Description        string                      `json:"description" gorm:"type:text"`
	PromptTemplate     string                      `json:"prompt_template" gorm:"type:text;not null"`
	Model              string                      `json:"model" gorm:"not null"`
	Temperature        float64                     `json:"temperature" gorm:"not null;default:0.7"` // 0..2
	MaxTokens          int                         `json:"max_tokens" gorm:"not null;default:500"`  // 1..10000
	AvailableVariables datatypes.JSONSlice[string] `json:"available_variables"`
	IsActive           bool                        `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}
