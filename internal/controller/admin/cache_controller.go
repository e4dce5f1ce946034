package admin

import (
	"net/http"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CacheController struct {
	maintenanceService service.MaintenanceService
}

func NewCacheController(maintenanceService service.MaintenanceService) *CacheController {
	return &CacheController{maintenanceService: maintenanceService}
}

// SweepHintCache godoc
// @Summary (Admin) Sweep stale hint cache entries
// @Description Deletes cached hints that were never reused and are older than the retention horizon. Entries hit more than once are kept.
// @Tags Admin - Cache
// @Accept json
// @Produce json
// @Param request body dto.SweepRequest false "Optional retention override in days (default 90)"
// @Success 200 {object} dto.SweepResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/hint-cache/sweep [post]
func (c *CacheController) SweepHintCache(ctx *gin.Context) {
	var req dto.SweepRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
			return
		}
	}

	retention := req.RetentionDays
	if retention <= 0 {
		retention = service.DefaultRetentionDays
	}

	deleted, err := c.maintenanceService.SweepHintCache(retention)
	if err != nil {
		log.Error().Err(err).Msg("Admin SweepHintCache: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to sweep hint cache"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SweepResponse{Success: true, Deleted: deleted, RetentionDays: retention})
}
