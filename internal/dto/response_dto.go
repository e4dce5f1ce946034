package dto

import "time"

// ErrorResponse is the error envelope shared by every endpoint.
// SolutionViewed is set only on the disclosure-lock rejection so the UI can
// permanently disable resubmission instead of offering a retry.
type ErrorResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	SolutionViewed bool   `json:"solution_viewed,omitempty"`
}

// SubmitAnswerResponse is the evaluation verdict for one submission.
// CorrectAnswer is only revealed when the student got it right.
type SubmitAnswerResponse struct {
	Success       bool    `json:"success"`
	IsCorrect     bool    `json:"is_correct"`
	Feedback      string  `json:"feedback"`
	Reasoning     string  `json:"reasoning,omitempty"`
	NextStep      string  `json:"next_step"` // "next_problem" or "try_again"
	CorrectAnswer *string `json:"correct_answer,omitempty"`
}

// HintResponse carries one disclosed hint. Cached reports whether the text
// came from the in-process cache.
type HintResponse struct {
	Success  bool   `json:"success"`
	Level    string `json:"level"`
	Hint     string `json:"hint"`
	NextStep string `json:"next_step"` // "try_again" or "reveal_solution"
	Cached   bool   `json:"cached"`
}

// StudentProblemDTO is the problem as shown to a student: no correct
// answer, no stored solution.
type StudentProblemDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory"`
	Difficulty   string    `json:"difficulty"`
	ProblemText  string    `json:"problem_text"`
	AnswerFormat string    `json:"answer_format"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttemptDTO is one ledger row in history listings.
type AttemptDTO struct {
	ID            uint      `json:"id"`
	ProblemID     uint      `json:"problem_id"`
	StudentAnswer string    `json:"student_answer"`
	IsCorrect     bool      `json:"is_correct"`
	AttemptNumber int       `json:"attempt_number"`
	Feedback      string    `json:"feedback,omitempty"`
	HintLevel     string    `json:"hint_level"`
	CreatedAt     time.Time `json:"created_at"`
}

// StudentProblemStats summarizes one student's ledger for one problem.
type StudentProblemStats struct {
	TotalAttempts       int  `json:"total_attempts"`
	CorrectAttempts     int  `json:"correct_attempts"`
	HintsUsed           int  `json:"hints_used"`
	FirstAttemptCorrect bool `json:"first_attempt_correct"`
	Solved              bool `json:"solved"`
}

// SweepResponse reports a hint-cache retention sweep.
type SweepResponse struct {
	Success       bool  `json:"success"`
	Deleted       int64 `json:"deleted"`
	RetentionDays int   `json:"retention_days"`
}
