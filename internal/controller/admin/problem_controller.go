package admin

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

// CreateProblem godoc
// @Summary (Admin) Create a new problem
// @Description Creates a problem. With pre_generate_hints set, the canonical solution is generated immediately instead of on first request.
// @Tags Admin - Problems
// @Accept json
// @Produce json
// @Param problem body dto.CreateProblemRequest true "Problem data"
// @Success 201 {object} model.Problem
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems [post]
func (c *ProblemController) CreateProblem(ctx *gin.Context) {
	var req dto.CreateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateProblem: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	problem, err := c.problemService.Create(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Admin CreateProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create problem"})
		return
	}
	ctx.JSON(http.StatusCreated, problem)
}

// ListProblems godoc
// @Summary (Admin) List problems with answers
// @Tags Admin - Problems
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty"
// @Success 200 {array} model.Problem
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems [get]
func (c *ProblemController) ListProblems(ctx *gin.Context) {
	problems, err := c.problemService.List(ctx.Query("category"), ctx.Query("difficulty"))
	if err != nil {
		log.Error().Err(err).Msg("Admin ListProblems: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve problems"})
		return
	}
	ctx.JSON(http.StatusOK, problems)
}

// GetProblem godoc
// @Summary (Admin) Get one problem with answers
// @Tags Admin - Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} model.Problem
// @Failure 400 {object} dto.ErrorResponse "Invalid problem ID format"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems/{id} [get]
func (c *ProblemController) GetProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	problem, err := c.problemService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
			return
		}
		log.Error().Err(err).Uint64("problemID", id).Msg("Admin GetProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve problem"})
		return
	}
	ctx.JSON(http.StatusOK, problem)
}

// UpdateProblem godoc
// @Summary (Admin) Update a problem
// @Description Applies a partial update. With regenerate_hints set, the canonical solution is regenerated and all cached hints for the problem are discarded.
// @Tags Admin - Problems
// @Accept json
// @Produce json
// @Param id path int true "Problem ID"
// @Param problem body dto.UpdateProblemRequest true "Fields to update"
// @Success 200 {object} model.Problem
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems/{id} [put]
func (c *ProblemController) UpdateProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	var req dto.UpdateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdateProblem: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	problem, err := c.problemService.Update(ctx.Request.Context(), uint(id), req)
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
			return
		}
		log.Error().Err(err).Uint64("problemID", id).Msg("Admin UpdateProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update problem"})
		return
	}
	ctx.JSON(http.StatusOK, problem)
}

// DeleteProblem godoc
// @Summary (Admin) Delete one problem
// @Description Deletes the problem together with its attempts and cached hints.
// @Tags Admin - Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.BulkDeleteResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid problem ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems/{id} [delete]
func (c *ProblemController) DeleteProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	deleted, err := c.problemService.Delete([]uint{uint(id)})
	if err != nil {
		log.Error().Err(err).Uint64("problemID", id).Msg("Admin DeleteProblem: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete problem"})
		return
	}
	ctx.JSON(http.StatusOK, dto.BulkDeleteResponse{Success: true, Deleted: deleted})
}

// BulkDeleteProblems godoc
// @Summary (Admin) Delete several problems
// @Description Deletes the given problems together with their attempts and cached hints.
// @Tags Admin - Problems
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteRequest true "Problem IDs to delete"
// @Success 200 {object} dto.BulkDeleteResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems/bulk-delete [post]
func (c *ProblemController) BulkDeleteProblems(ctx *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin BulkDeleteProblems: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	deleted, err := c.problemService.Delete(req.ProblemIDs)
	if err != nil {
		log.Error().Err(err).Ints("problemIDs", toInts(req.ProblemIDs)).Msg("Admin BulkDeleteProblems: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete problems"})
		return
	}
	ctx.JSON(http.StatusOK, dto.BulkDeleteResponse{Success: true, Deleted: deleted})
}

// GetProblemAnalytics godoc
// @Summary (Admin) Get attempt analytics for one problem
// @Tags Admin - Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} dto.ProblemAnalyticsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid problem ID format"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/problems/{id}/analytics [get]
func (c *ProblemController) GetProblemAnalytics(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	analytics, err := c.problemService.Analytics(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
			return
		}
		log.Error().Err(err).Uint64("problemID", id).Msg("Admin GetProblemAnalytics: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute analytics"})
		return
	}
	ctx.JSON(http.StatusOK, analytics)
}

// GenerateSimilarProblems godoc
// @Summary (Admin) Generate problems similar to an existing one
// @Description Asks the engine for new problems modeled on the given one and persists the batch. Engine errors surface to the caller.
// @Tags Admin - Problems
// @Accept json
// @Produce json
// @Param id path int true "Template problem ID"
// @Param request body dto.GenerateSimilarRequest true "How many problems to generate"
// @Success 201 {object} dto.GenerateSimilarResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Problem not found"
// @Failure 500 {object} dto.ErrorResponse "Generation or persistence failed"
// @Router /admin/problems/{id}/generate-similar [post]
func (c *ProblemController) GenerateSimilarProblems(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid problem ID format"})
		return
	}

	var req dto.GenerateSimilarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin GenerateSimilarProblems: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	problems, err := c.problemService.GenerateSimilar(ctx.Request.Context(), uint(id), req.Count)
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Problem not found"})
			return
		}
		log.Error().Err(err).Uint64("problemID", id).Int("count", req.Count).Msg("Admin GenerateSimilarProblems: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to generate similar problems"})
		return
	}
	ctx.JSON(http.StatusCreated, dto.GenerateSimilarResponse{Success: true, Created: len(problems)})
}

func toInts(ids []uint) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
