package repository

import (
	"errors"

	"github.com/dtvinh/mathtutor/internal/model"
	"gorm.io/gorm"
)

type ProblemRepository interface {
	Create(problem *model.Problem) error
	CreateBatch(problems []model.Problem) error
	FindByID(id uint) (*model.Problem, error)
	FindAll(category, difficulty string) ([]model.Problem, error)
	FindRandom(category, difficulty string) (*model.Problem, error)
	Update(problem *model.Problem) error
	UpdateSolution(id uint, solution string) error
	DeleteBatch(ids []uint) error
}

type problemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

func (r *problemRepository) Create(problem *model.Problem) error {
	return r.db.Create(problem).Error
}

func (r *problemRepository) CreateBatch(problems []model.Problem) error {
	if len(problems) == 0 {
		return nil
	}
	return r.db.Create(&problems).Error
}

// FindByID returns nil when the problem does not exist.
func (r *problemRepository) FindByID(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := r.db.First(&problem, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *problemRepository) FindAll(category, difficulty string) ([]model.Problem, error) {
	var problems []model.Problem
	query := r.db.Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Find(&problems).Error
	return problems, err
}

func (r *problemRepository) FindRandom(category, difficulty string) (*model.Problem, error) {
	var problem model.Problem
	query := r.db.Order("RANDOM()")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.First(&problem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *problemRepository) Update(problem *model.Problem) error {
	return r.db.Save(problem).Error
}

// UpdateSolution persists the canonical worked solution without touching
// the rest of the row.
func (r *problemRepository) UpdateSolution(id uint, solution string) error {
	return r.db.Model(&model.Problem{}).
		Where("id = ?", id).
		Update("hint_solution", solution).Error
}

func (r *problemRepository) DeleteBatch(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&model.Problem{}, ids).Error
}
