package model

import (
	"time"
)

// Hint disclosure levels recorded on an attempt.
const (
	HintLevelNone     = "none"
	HintLevelSteps    = "steps"
	HintLevelSolution = "solution"
)

// APICalls records which expensive generation calls actually ran for this
// attempt, as opposed to being served from a cache. Used for cost analytics.
type APICalls struct {
	Validation bool `json:"validation" gorm:"default:false"`
	Feedback   bool `json:"feedback" gorm:"default:false"`
	Hint       bool `json:"hint" gorm:"default:false"`
}

// Attempt is one row of the append-only submission/hint ledger. Rows are
// never updated after creation; they are only bulk-deleted together with
// their parent problem.
type Attempt struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        uint      `json:"user_id" gorm:"not null;index;index:idx_attempts_dup,priority:1"`
	ProblemID     uint      `json:"problem_id" gorm:"not null;index;index:idx_attempts_dup,priority:2"`
	StudentAnswer string    `json:"student_answer" gorm:"type:text;not null;index:idx_attempts_dup,priority:3"`
	IsCorrect     bool      `json:"is_correct" gorm:"index"`
	AttemptNumber int       `json:"attempt_number" gorm:"not null;default:1"` // caller-supplied, display only
	Feedback      string    `json:"feedback" gorm:"type:text"`
	HintLevel     string    `json:"hint_level" gorm:"default:'none'"`
	APICallsMade  APICalls  `json:"api_calls_made" gorm:"embedded;embeddedPrefix:api_"`
	TimeSpent     *int      `json:"time_spent,omitempty"` // seconds
	CreatedAt     time.Time `json:"created_at" gorm:"index;index:idx_attempts_dup,priority:4"`
}

// IsRecent reports whether the attempt happened within the last 24 hours.
func (a *Attempt) IsRecent() bool {
	return time.Since(a.CreatedAt) < 24*time.Hour
}
