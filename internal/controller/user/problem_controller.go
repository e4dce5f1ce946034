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

type ProblemController struct {
	problemService service.ProblemService
}

func NewProblemController(problemService service.ProblemService) *ProblemController {
	return &ProblemController{problemService: problemService}
}

// ListProblems godoc
// @Summary List problems
// @Description Lists problems in student view (correct answers and solutions are never included). Optional category and difficulty filters.
// @Tags Problems
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty"
// @Success 200 {array} dto.StudentProblemDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /problems [get]
func (c *ProblemController) ListProblems(ctx *gin.Context) {
	problems, err := c.problemService.List(ctx.Query("category"), ctx.Query("difficulty"))
	if err != nil {
		log.Error().Err(err).Msg("ListProblems: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve problems"})
		return
	}

	views := make([]dto.StudentProblemDTO, 0, len(problems))
	for i := range problems {
		views = append(views, dto.StudentProblemDTO{
			ID:           problems[i].ID,
			Title:        problems[i].Title,
			Category:     problems[i].Category,
			Subcategory:  problems[i].Subcategory,
			Difficulty:   problems[i].Difficulty,
			ProblemText:  problems[i].ProblemText,
			AnswerFormat: problems[i].AnswerFormat,
			CreatedAt:    problems[i].CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, views)
}

// GetRandomProblem godoc
// @Summary Get a random problem
// @Tags Problems
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty"
// @Success 200 {object} dto.StudentProblemDTO
// @Failure 404 {object} dto.ErrorResponse "No problems match the filters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /problems/random [get]
func (c *ProblemController) GetRandomProblem(ctx *gin.Context) {
	view, err := c.problemService.GetRandomStudentView(ctx.Query("category"), ctx.Query("difficulty"))
	if err != nil {
		if errors.Is(err, service.ErrNoProblems) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No problems available for the given filters"})
			return
		}
		log.Error().Err(err).Msg("GetRandomProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve a problem"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetProblem godoc
// @Summary Get one problem
// @Tags Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.StudentProblemDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid problem ID format"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /problems/{id} [get]
func (c *ProblemController) GetProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	view, err := c.problemService.GetStudentView(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
			return
		}
		log.Error().Err(err).Uint64("problemID", id).Msg("GetProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve problem"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}
