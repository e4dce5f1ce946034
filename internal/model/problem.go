package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Hints holds the reusable, per-problem hint texts. Steps is optional seed
// content; Solution is the canonical worked solution shared by every
// student and filled in lazily the first time somebody asks for it.
type Hints struct {
	Steps    string `json:"steps,omitempty" gorm:"type:text"`
	Solution string `json:"solution,omitempty" gorm:"type:text"`
}

type Problem struct {
	ID               uint                         `gorm:"primarykey" json:"id"`
	Title            string                       `json:"title" gorm:"not null"`
	Category         string                       `json:"category" gorm:"not null;index:idx_problems_category_difficulty"` // "pre-algebra", "algebra"
	Subcategory      string                       `json:"subcategory" gorm:"not null"`
	Difficulty       string                       `json:"difficulty" gorm:"not null;index:idx_problems_category_difficulty"` // "pre-algebra", "algebra-1", "algebra-2"
	ProblemText      string                       `json:"problem_text" gorm:"type:text;not null"`
	AnswerFormat     string                       `json:"answer_format" gorm:"not null"` // "number", "expression"
	CorrectAnswer    string                       `json:"correct_answer" gorm:"not null"`
	AlternateAnswers datatypes.JSONSlice[string]  `json:"alternate_answers"`
	Hints            Hints                        `json:"hints" gorm:"embedded;embeddedPrefix:hint_"`
	Explanation      string                       `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
	DeletedAt        gorm.DeletedAt               `gorm:"index" json:"-"`
}
