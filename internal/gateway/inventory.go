package gateway

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

type wireIngredient struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Unit     string           `json:"unit"`
	Stock    decimal.Decimal  `json:"stock"`
	MinStock *decimal.Decimal `json:"min_stock"`
}

// ListIngredients returns current stock levels.
func (c *Client) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var wire []wireIngredient
	if err := c.do(ctx, request{method: http.MethodGet, path: "/inventory/ingredients"}, &wire); err != nil {
		return nil, err
	}
	out := make([]models.Ingredient, 0, len(wire))
	for _, w := range wire {
		unit, ok := models.ParseIngredientUnit(w.Unit)
		if !ok {
			utils.LogWarn("Unrecognized ingredient unit from backend", map[string]interface{}{"ingredient_id": w.ID, "unit": w.Unit})
			unit = models.UnitPcs
		}
		out = append(out, models.Ingredient{ID: w.ID, Name: w.Name, Unit: unit, Stock: w.Stock, MinStock: w.MinStock})
	}
	return out, nil
}

// ListSuppliers returns the suppliers goods can be received from.
func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := c.do(ctx, request{method: http.MethodGet, path: "/inventory/suppliers"}, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// RecordTransaction persists an inventory transaction (IN or ADJUST).
func (c *Client) RecordTransaction(ctx context.Context, tx *models.InventoryTransaction) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/inventory/transactions", body: tx}, nil)
}
