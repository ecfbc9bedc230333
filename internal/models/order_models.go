package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod defines how a closed order was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValidPaymentMethod checks if the provided value is a recognized PaymentMethod.
func IsValidPaymentMethod(method string) bool {
	switch PaymentMethod(method) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	default:
		return false
	}
}

// OrderItem is a single line of an order
type OrderItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Notes      *string         `json:"notes,omitempty"`
	Size       *string         `json:"size,omitempty"`
}

// LineTotal is unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// sameLine reports whether two items would be merged on the ticket.
func (i OrderItem) sameLine(o OrderItem) bool {
	return i.MenuItemID == o.MenuItemID && strPtrEqual(i.Size, o.Size) && strPtrEqual(i.Notes, o.Notes)
}

// Order represents a table's bill
type Order struct {
	ID            string          `json:"id"`
	TableID       string          `json:"table_id"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"` // percentage, 0-100
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
}

// IsOpen reports whether the order still accepts item mutations.
func (o *Order) IsOpen() bool {
	return o.ClosedAt == nil
}

// Recalculate recomputes subtotal and total; total is rounded to scale decimal places.
func (o *Order) Recalculate(scale int32) {
	subtotal := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	o.Subtotal = subtotal
	factor := decimal.NewFromInt(1).Sub(o.Discount.Div(decimal.NewFromInt(100)))
	o.Total = subtotal.Mul(factor).Round(scale)
}

// AddItem merges the item into an existing line with the same menu item, size and notes.
func (o *Order) AddItem(item OrderItem) {
	for i := range o.Items {
		if o.Items[i].sameLine(item) {
			o.Items[i].Quantity += item.Quantity
			return
		}
	}
	o.Items = append(o.Items, item)
}

// Clone returns a deep copy safe to hand out of the state mirror.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.ClosedAt != nil {
		t := *o.ClosedAt
		c.ClosedAt = &t
	}
	if o.PaymentMethod != nil {
		m := *o.PaymentMethod
		c.PaymentMethod = &m
	}
	return &c
}

// OrderFilters defines the available filters for querying orders on the backend.
type OrderFilters struct {
	TableID  *string `form:"table_id"`
	Status   *string `form:"status"`
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
