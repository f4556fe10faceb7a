package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/services"
)

type DashboardHandler struct {
	log              *logger.Logger
	dashboardService services.DashboardService
}

func NewDashboardHandler(baseLog *logger.Logger, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:              baseLog.With("handler", "DashboardHandler"),
		dashboardService: dashboardService,
	}
}

// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build dashboard stats", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, stats)
}
