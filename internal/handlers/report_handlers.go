package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/services"
)

// ReportHandler serves the dashboard, stats and kitchen display.
type ReportHandler struct {
	state services.StateService
}

func NewReportHandler(state services.StateService) *ReportHandler {
	return &ReportHandler{state: state}
}

// GetDashboardSummary provides a summary of key metrics for the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Dashboard(c.Request.Context()))
}

// GetOrderStats returns revenue and order counts, from the backend when it answers.
func (h *ReportHandler) GetOrderStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.OrderStats(c.Request.Context()))
}

// GetKitchenQueue lists open orders with items, oldest first.
func (h *ReportHandler) GetKitchenQueue(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.KitchenQueue())
}

// ReloadState re-hydrates the mirror from the backend.
func (h *ReportHandler) ReloadState(c *gin.Context) {
	if err := h.state.Hydrate(c.Request.Context()); err != nil {
		respondError(c, nil, "Reload", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "State reloaded."})
}
