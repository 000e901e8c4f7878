package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocketbook/internal/services"
)

// DashboardHandler serves the overview numbers.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the dashboard figures
// @Summary     Dashboard stats
// @Description Balance, inventory value, debt totals and the active work session in one call.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardStats "Dashboard stats"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.dashboardService.GetStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
