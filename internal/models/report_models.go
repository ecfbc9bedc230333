package models

import "github.com/shopspring/decimal"

// OrderStats holds the dashboard figures computed by the backend order service.
type OrderStats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	OrderCount    int             `json:"order_count"`
	CountByStatus map[string]int  `json:"count_by_status"`
}

// KitchenTicket groups the open order items of one table for the kitchen display.
type KitchenTicket struct {
	TableID   string      `json:"table_id"`
	TableName string      `json:"table_name"`
	OrderID   string      `json:"order_id"`
	Items     []OrderItem `json:"items"`
}

// DashboardSummary holds key metrics for the terminal's home view.
type DashboardSummary struct {
	TablesByStatus     map[TableStatus]int `json:"tables_by_status"`
	OpenOrdersCount    int                 `json:"open_orders_count"`
	UpcomingBookings   int                 `json:"upcoming_bookings_count"`
	LowStockItemsCount int                 `json:"low_stock_items_count"`
	Stats              OrderStats          `json:"stats"`
}
