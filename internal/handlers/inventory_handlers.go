package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
)

// SupplierDirectory lists the suppliers a stock-in can reference.
type SupplierDirectory interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
}

// InventoryHandler holds the ingredient stock endpoints.
type InventoryHandler struct {
	state     services.StateService
	suppliers SupplierDirectory
	feedback  services.FeedbackService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(state services.StateService, suppliers SupplierDirectory, feedback services.FeedbackService) *InventoryHandler {
	return &InventoryHandler{state: state, suppliers: suppliers, feedback: feedback}
}

// GetSuppliers proxies the backend supplier list.
func (h *InventoryHandler) GetSuppliers(c *gin.Context) {
	list, err := h.suppliers.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, nil, "List suppliers", err)
		return
	}
	if list == nil {
		list = []models.Supplier{}
	}
	c.JSON(http.StatusOK, list)
}

// GetIngredients returns all ingredients; ?low_stock=true restricts to those at or below their minimum.
func (h *InventoryHandler) GetIngredients(c *gin.Context) {
	ingredients := h.state.Ingredients()
	if c.Query("low_stock") != "true" {
		c.JSON(http.StatusOK, ingredients)
		return
	}
	low := make([]models.Ingredient, 0)
	for _, ing := range ingredients {
		if ing.IsLowStock() {
			low = append(low, ing)
		}
	}
	c.JSON(http.StatusOK, low)
}

// GetLowStockIDs returns the ids of low-stock ingredients.
func (h *InventoryHandler) GetLowStockIDs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": h.state.LowStockIDs()})
}

// GetTransactions returns the inventory transaction log.
func (h *InventoryHandler) GetTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Transactions())
}

// StockIn records goods received.
func (h *InventoryHandler) StockIn(c *gin.Context) {
	var in models.StockInInput
	if !bindJSON(c, &in) {
		return
	}
	tx, err := h.state.RecordInventoryIn(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.feedback, "Stock in", err)
		return
	}
	notifySuccess(h.feedback, "Stock received", tx.ID)
	c.JSON(http.StatusCreated, tx)
}

type adjustmentRequest struct {
	Items []models.InventoryTransactionItem `json:"items" binding:"required"`
	Note  *string                           `json:"note"`
}

// Adjust records a signed stock correction.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req adjustmentRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.state.RecordAdjustment(c.Request.Context(), req.Items, req.Note)
	if err != nil {
		respondError(c, h.feedback, "Stock adjustment", err)
		return
	}
	notifySuccess(h.feedback, "Stock adjusted", tx.ID)
	c.JSON(http.StatusCreated, tx)
}
