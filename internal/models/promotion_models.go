package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionType is how a promotion's value is interpreted
type PromotionType string

const (
	PromotionPercentage PromotionType = "percentage"
	PromotionFixed      PromotionType = "fixed"
)

// Promotion is a discount rule managed by the backend promotion service
type Promotion struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Type           PromotionType    `json:"type" binding:"required,oneof=percentage fixed"`
	Value          decimal.Decimal  `json:"value"`
	RecipeIDs      []string         `json:"recipe_ids,omitempty"`
	CategoryIDs    []string         `json:"category_ids,omitempty"`
	StartsAt       time.Time        `json:"starts_at"`
	EndsAt         time.Time        `json:"ends_at"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	RequireDeposit bool             `json:"require_deposit"`
}

// ActiveAt reports whether t falls inside the validity window [StartsAt, EndsAt].
func (p Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// IsOrderWide is true when the promotion is not scoped to recipes or categories.
func (p Promotion) IsOrderWide() bool {
	return len(p.RecipeIDs) == 0 && len(p.CategoryIDs) == 0
}
