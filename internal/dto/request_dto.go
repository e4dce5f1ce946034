package dto

// SubmitAnswerRequest is a student submitting one answer to one problem.
// UserID comes from the request until real authentication lands; the
// attempt number is caller-supplied and used for display and cache keying
// only.
type SubmitAnswerRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	ProblemID     uint   `json:"problem_id" binding:"required"`
	StudentAnswer string `json:"student_answer" binding:"required"`
	AttemptNumber int    `json:"attempt_number"`
	TimeSpent     *int   `json:"time_spent"`
}

// HintRequest asks for a hint on the problem in the URL. The student's
// current (wrong) answer is required: steps hints are generated against it.
type HintRequest struct {
	UserID        uint   `json:"user_id" binding:"required"`
	Level         string `json:"level" binding:"required,oneof=steps solution"`
	StudentAnswer string `json:"student_answer" binding:"required"`
	AttemptNumber int    `json:"attempt_number"`
}

// CreateProblemRequest is the admin problem creation payload.
type CreateProblemRequest struct {
	Title            string   `json:"title" binding:"required"`
	Category         string   `json:"category" binding:"required,oneof=pre-algebra algebra"`
	Subcategory      string   `json:"subcategory" binding:"required"`
	Difficulty       string   `json:"difficulty" binding:"required,oneof=pre-algebra algebra-1 algebra-2"`
	ProblemText      string   `json:"problem_text" binding:"required"`
	AnswerFormat     string   `json:"answer_format" binding:"required,oneof=number expression"`
	CorrectAnswer    string   `json:"correct_answer" binding:"required"`
	AlternateAnswers []string `json:"alternate_answers"`
	Explanation      string   `json:"explanation"`
	// PreGenerateHints asks for the canonical solution to be generated at
	// creation time instead of lazily on the first solution request.
	PreGenerateHints bool `json:"pre_generate_hints"`
}

// UpdateProblemRequest carries partial updates; nil fields are untouched.
type UpdateProblemRequest struct {
	Title            *string   `json:"title"`
	Category         *string   `json:"category"`
	Subcategory      *string   `json:"subcategory"`
	Difficulty       *string   `json:"difficulty"`
	ProblemText      *string   `json:"problem_text"`
	AnswerFormat     *string   `json:"answer_format"`
	CorrectAnswer    *string   `json:"correct_answer"`
	AlternateAnswers *[]string `json:"alternate_answers"`
	Explanation      *string   `json:"explanation"`
	// RegenerateHints regenerates the canonical solution and clears every
	// cached hint for this problem, since they were derived from the old
	// problem text.
	RegenerateHints bool `json:"regenerate_hints"`
}

// BulkDeleteRequest removes several problems and their dependent records.
type BulkDeleteRequest struct {
	ProblemIDs []uint `json:"problem_ids" binding:"required,min=1"`
}

// GenerateSimilarRequest asks the engine for a batch of new problems
// modeled on an existing one.
type GenerateSimilarRequest struct {
	Count int `json:"count" binding:"required,min=1,max=20"`
}

// UpdatePromptRequest carries partial prompt-config updates.
type UpdatePromptRequest struct {
	PromptTemplate *string  `json:"prompt_template"`
	Model          *string  `json:"model"`
	Temperature    *float64 `json:"temperature"`
	MaxTokens      *int     `json:"max_tokens"`
}

// SweepRequest overrides the hint-cache retention horizon.
type SweepRequest struct {
	RetentionDays int `json:"retention_days"`
}
