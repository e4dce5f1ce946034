package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dtvinh/mathtutor/internal/model"
	"gorm.io/gorm"
)

// ProblemMetrics aggregates the attempt ledger for one problem.
type ProblemMetrics struct {
	TotalAttempts    int64   `json:"total_attempts"`
	UniqueStudents   int64   `json:"unique_students"`
	SolvedByStudents int64   `json:"solved_by_students"`
	SolveRate        float64 `json:"solve_rate"`
	AverageAttempts  float64 `json:"average_attempts"`
	HintsRequested   int64   `json:"hints_requested"`
}

// AttemptRepository is the append-only submission/hint ledger. Attempts are
// never updated; they are only inserted and bulk-deleted alongside their
// parent problem.
type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	FindRecentDuplicate(userID, problemID uint, studentAnswer string, window time.Duration) (*model.Attempt, error)
	HasViewedSolution(userID, problemID uint) (bool, error)
	FindByUserAndProblem(userID, problemID uint) ([]model.Attempt, error)
	FindAllByUser(userID uint, limit int) ([]model.Attempt, error)
	DeleteForProblems(problemIDs []uint) error
	ProblemMetrics(problemID uint) (*ProblemMetrics, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	attempt.StudentAnswer = strings.TrimSpace(attempt.StudentAnswer)
	return r.db.Create(attempt).Error
}

// FindRecentDuplicate returns the newest attempt by this user on this
// problem with the same normalized answer inside the trailing window, or
// nil when there is none.
func (r *attemptRepository) FindRecentDuplicate(userID, problemID uint, studentAnswer string, window time.Duration) (*model.Attempt, error) {
	var attempt model.Attempt
	cutoff := time.Now().Add(-window)

	err := r.db.
		Where("user_id = ? AND problem_id = ? AND student_answer = ? AND created_at >= ?",
			userID, problemID, strings.TrimSpace(studentAnswer), cutoff).
		Order("created_at DESC").
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// HasViewedSolution reports whether any attempt with hint level "solution"
// exists for the pair. Once true it stays true for the life of the pair.
func (r *attemptRepository) HasViewedSolution(userID, problemID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Attempt{}).
		Where("user_id = ? AND problem_id = ? AND hint_level = ?", userID, problemID, model.HintLevelSolution).
		Count(&count).Error
	return count > 0, err
}

func (r *attemptRepository) FindByUserAndProblem(userID, problemID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindAllByUser(userID uint, limit int) ([]model.Attempt, error) {
	var attempts []model.Attempt
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) DeleteForProblems(problemIDs []uint) error {
	if len(problemIDs) == 0 {
		return nil
	}
	return r.db.Where("problem_id IN ?", problemIDs).Delete(&model.Attempt{}).Error
}

// ProblemMetrics computes difficulty analytics with SQL aggregates. Rates
// are guarded against zero unique students.
func (r *attemptRepository) ProblemMetrics(problemID uint) (*ProblemMetrics, error) {
	m := &ProblemMetrics{}
	base := r.db.Model(&model.Attempt{}).Where("problem_id = ?", problemID)

	if err := base.Session(&gorm.Session{}).Count(&m.TotalAttempts).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Distinct("user_id").Count(&m.UniqueStudents).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_correct = ?", true).Distinct("user_id").Count(&m.SolvedByStudents).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("hint_level <> ?", model.HintLevelNone).Count(&m.HintsRequested).Error; err != nil {
		return nil, err
	}

	if m.UniqueStudents > 0 {
		m.SolveRate = float64(m.SolvedByStudents) / float64(m.UniqueStudents) * 100
		m.AverageAttempts = float64(m.TotalAttempts) / float64(m.UniqueStudents)
	}
	return m, nil
}
