package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	submissionService service.SubmissionService
	hintService       service.HintService
	attemptService    service.AttemptService
}

func NewAttemptController(
	submissionService service.SubmissionService,
	hintService service.HintService,
	attemptService service.AttemptService,
) *AttemptController {
	return &AttemptController{
		submissionService: submissionService,
		hintService:       hintService,
		attemptService:    attemptService,
	}
}

// SubmitAnswer godoc
// @Summary Submit an answer for evaluation
// @Description Validates the student's answer and returns feedback. Identical resubmissions within 24 hours reuse the earlier verdict. Submissions are rejected once the student has viewed the solution.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param submission body dto.SubmitAnswerRequest true "Submission payload"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Solution already viewed for this problem"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/submit [post]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := c.submissionService.SubmitAnswer(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSolutionViewed):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{
				Message:        "You have already viewed the solution for this problem. Please move on to the next problem.",
				SolutionViewed: true,
			})
		case errors.Is(err, service.ErrProblemNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
		default:
			log.Error().Err(err).Uint("userID", req.UserID).Uint("problemID", req.ProblemID).Msg("SubmitAnswer: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to evaluate submission"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetHint godoc
// @Summary Request a hint for a problem
// @Description Returns a steps hint tailored to the student's wrong answer, or the full solution. Requesting the solution permanently locks further submissions for this problem.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param problem_id path int true "Problem ID"
// @Param hint_request body dto.HintRequest true "Hint request payload"
// @Success 200 {object} dto.HintResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or hint level"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{problem_id}/hint [post]
func (c *AttemptController) GetHint(ctx *gin.Context) {
	problemID, err := strconv.ParseUint(ctx.Param("problem_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	var req dto.HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GetHint: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := c.hintService.GetHint(ctx.Request.Context(), uint(problemID), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrProblemNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
		default:
			log.Error().Err(err).Uint64("problemID", problemID).Msg("GetHint: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate hint"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetMyAttempts godoc
// @Summary List the current user's attempt history
// @Tags Attempts
// @Produce json
// @Param user_id query int true "User ID"
// @Param limit query int false "Maximum rows to return (default 50)"
// @Success 200 {array} dto.AttemptDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/my-attempts [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Query("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	limit := 50
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if val, err := strconv.Atoi(limitStr); err == nil && val > 0 {
			limit = val
		}
	}

	attempts, err := c.attemptService.GetUserHistory(uint(userID), limit)
	if err != nil {
		log.Error().Err(err).Uint64("userID", userID).Msg("GetMyAttempts: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve attempts"})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetProblemStats godoc
// @Summary Get the current user's statistics for one problem
// @Tags Attempts
// @Produce json
// @Param problem_id path int true "Problem ID"
// @Param user_id query int true "User ID"
// @Success 200 {object} dto.StudentProblemStats
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/problems/{problem_id} [get]
func (c *AttemptController) GetProblemStats(ctx *gin.Context) {
	problemID, err := strconv.ParseUint(ctx.Param("problem_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}
	userID, err := strconv.ParseUint(ctx.Query("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	stats, err := c.attemptService.GetStudentProblemStats(uint(userID), uint(problemID))
	if err != nil {
		log.Error().Err(err).Uint64("userID", userID).Uint64("problemID", problemID).Msg("GetProblemStats: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve problem statistics"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
