package model

import (
	"time"
)

// HintCache is the durable hint store: one generated hint per
// (problem, normalized wrong answer) pair, reused across sessions and
// server restarts. The composite unique index makes concurrent first
// generations collapse onto a single row.
type HintCache struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProblemID     uint      `json:"problem_id" gorm:"not null;uniqueIndex:idx_hint_cache_key,priority:1"`
	StudentAnswer string    `json:"student_answer" gorm:"not null;uniqueIndex:idx_hint_cache_key,priority:2"`
	Hint          string    `json:"hint" gorm:"type:text;not null"`
	HitCount      int       `json:"hit_count" gorm:"not null;default:1;index:idx_hint_cache_sweep,priority:2"`
	LastUsed      time.Time `json:"last_used" gorm:"index:idx_hint_cache_sweep,priority:1"`
	CreatedAt     time.Time `json:"created_at"`
}
