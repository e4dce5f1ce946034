package dto

// ProblemAnalyticsResponse combines problem identity with its ledger
// metrics for the admin dashboard.
type ProblemAnalyticsResponse struct {
	Success          bool    `json:"success"`
	ProblemID        uint    `json:"problem_id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Difficulty       string  `json:"difficulty"`
	TotalAttempts    int64   `json:"total_attempts"`
	UniqueStudents   int64   `json:"unique_students"`
	SolvedByStudents int64   `json:"solved_by_students"`
	SolveRate        float64 `json:"solve_rate"`
	AverageAttempts  float64 `json:"average_attempts"`
	HintsRequested   int64   `json:"hints_requested"`
}

// BulkDeleteResponse reports how many problems were removed.
type BulkDeleteResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

// GenerateSimilarResponse reports the batch-generation outcome.
type GenerateSimilarResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}
