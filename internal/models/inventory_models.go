package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IngredientUnit is the unit an ingredient's stock is counted in
type IngredientUnit string

const (
	UnitKg     IngredientUnit = "kg"
	UnitGram   IngredientUnit = "g"
	UnitBottle IngredientUnit = "bottle"
	UnitPcs    IngredientUnit = "pcs"
	UnitLiter  IngredientUnit = "l"
	UnitMl     IngredientUnit = "ml"
)

// ParseIngredientUnit is case-insensitive ("Kg", "L" and "Bottle" come from the backend capitalized).
func ParseIngredientUnit(s string) (IngredientUnit, bool) {
	u := IngredientUnit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case UnitKg, UnitGram, UnitBottle, UnitPcs, UnitLiter, UnitMl:
		return u, true
	default:
		return "", false
	}
}

// Ingredient represents a stock-tracked raw material
type Ingredient struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Unit     IngredientUnit   `json:"unit"`
	Stock    decimal.Decimal  `json:"stock"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// IsLowStock is true only when a threshold is configured and stock is below it.
func (i Ingredient) IsLowStock() bool {
	return i.MinStock != nil && i.Stock.LessThan(*i.MinStock)
}

// InventoryTransactionType classifies a stock movement
type InventoryTransactionType string

const (
	InventoryTransactionIn      InventoryTransactionType = "IN"
	InventoryTransactionAdjust  InventoryTransactionType = "ADJUST"
	InventoryTransactionConsume InventoryTransactionType = "CONSUME"
)

// InventoryTransactionItem is one ingredient line of a transaction
type InventoryTransactionItem struct {
	IngredientID string           `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
}

// InventoryTransaction represents an audited change in stock
type InventoryTransaction struct {
	ID         string                     `json:"id"`
	Type       InventoryTransactionType   `json:"type"`
	Items      []InventoryTransactionItem `json:"items"`
	SupplierID *string                    `json:"supplier_id,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	Note       *string                    `json:"note,omitempty"`
}

// StockInInput is the payload for receiving goods from a supplier.
type StockInInput struct {
	Items      []InventoryTransactionItem `json:"items" binding:"required"`
	SupplierID *string                    `json:"supplier_id"`
	Note       *string                    `json:"note"`
}

// Supplier as listed by the backend inventory service
type Supplier struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}
