package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dtvinh/mathtutor/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HintCacheRepository is the durable hint store keyed by
// (problem, normalized wrong answer).
type HintCacheRepository interface {
	// FindCached returns the cached hint and, as a side effect of the hit,
	// bumps hit_count and refreshes last_used. Returns nil on miss.
	FindCached(problemID uint, studentAnswer string) (*model.HintCache, error)
	// Save inserts a new hint. A concurrent duplicate insert for the same
	// key is swallowed: create-or-ignore, never a conflict error.
	Save(problemID uint, studentAnswer, hint string) error
	DeleteForProblems(problemIDs []uint) error
	// Sweep removes entries unused for retentionDays whose hit_count is
	// still 1. Entries reused even once more are kept regardless of age.
	Sweep(retentionDays int) (int64, error)
}

type hintCacheRepository struct {
	db *gorm.DB
}

func NewHintCacheRepository(db *gorm.DB) HintCacheRepository {
	return &hintCacheRepository{db: db}
}

func (r *hintCacheRepository) FindCached(problemID uint, studentAnswer string) (*model.HintCache, error) {
	var cached model.HintCache
	err := r.db.
		Where("problem_id = ? AND student_answer = ?", problemID, strings.TrimSpace(studentAnswer)).
		First(&cached).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"hit_count": gorm.Expr("hit_count + 1"),
		"last_used": now,
	}
	if err := r.db.Model(&model.HintCache{}).Where("id = ?", cached.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	cached.HitCount++
	cached.LastUsed = now
	return &cached, nil
}

func (r *hintCacheRepository) Save(problemID uint, studentAnswer, hint string) error {
	entry := model.HintCache{
		ProblemID:     problemID,
		StudentAnswer: strings.TrimSpace(studentAnswer),
		Hint:          hint,
		HitCount:      1,
		LastUsed:      time.Now(),
	}
	// Two requests can race past the miss check and both generate; the
	// second insert must land on the unique key without erroring.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "problem_id"}, {Name: "student_answer"}},
		DoNothing: true,
	}).Create(&entry).Error
}

func (r *hintCacheRepository) DeleteForProblems(problemIDs []uint) error {
	if len(problemIDs) == 0 {
		return nil
	}
	return r.db.Where("problem_id IN ?", problemIDs).Delete(&model.HintCache{}).Error
}

func (r *hintCacheRepository) Sweep(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := r.db.
		Where("last_used < ? AND hit_count = ?", cutoff, 1).
		Delete(&model.HintCache{})
	return res.RowsAffected, res.Error
}
