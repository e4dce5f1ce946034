package service

import "errors"

// Request-level errors the controllers translate into HTTP statuses.
// Generation-engine failures never appear here: they are absorbed with
// fallbacks at every call site.
var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrNoProblems      = errors.New("no problems match the given filters")
	ErrPromptNotFound  = errors.New("prompt configuration not found")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrSolutionViewed is the disclosure lock: once a student has seen the
	// full solution for a problem, further submissions for that pair are
	// rejected for good.
	ErrSolutionViewed = errors.New("solution already viewed for this problem")
)
