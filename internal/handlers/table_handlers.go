package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

// TableHandler serves the floor plan.
type TableHandler struct {
	state    services.StateService
	feedback services.FeedbackService
}

func NewTableHandler(state services.StateService, feedback services.FeedbackService) *TableHandler {
	return &TableHandler{state: state, feedback: feedback}
}

// ListTables returns every table, optionally filtered by ?status=.
func (h *TableHandler) ListTables(c *gin.Context) {
	tables := h.state.Tables()
	if status := c.Query("status"); status != "" {
		filtered := make([]models.Table, 0, len(tables))
		for _, t := range tables {
			if string(t.Status) == status {
				filtered = append(filtered, t)
			}
		}
		tables = filtered
	}
	c.JSON(http.StatusOK, tables)
}

// GetTableOrder returns the open order of a table.
func (h *TableHandler) GetTableOrder(c *gin.Context) {
	order, ok := h.state.GetOrderForTable(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No open order for this table.", ""))
		return
	}
	c.JSON(http.StatusOK, order)
}

// OpenOrder seats walk-in guests at a table.
func (h *TableHandler) OpenOrder(c *gin.Context) {
	order, err := h.state.OpenOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.feedback, "Open table", err)
		return
	}
	notifySuccess(h.feedback, "Table opened", "Order "+order.ID)
	c.JSON(http.StatusCreated, order)
}

type updateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTableStatus is the administrative status override.
func (h *TableHandler) UpdateTableStatus(c *gin.Context) {
	var req updateTableStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	table, err := h.state.UpdateTableStatus(c.Request.Context(), c.Param("id"), models.TableStatus(req.Status))
	if err != nil {
		respondError(c, h.feedback, "Update table", err)
		return
	}
	c.JSON(http.StatusOK, table)
}
