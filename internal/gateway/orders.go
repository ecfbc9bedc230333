package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"resto_pos_terminal/internal/models"
)

// CreateOrder registers a new (empty or pre-filled) order for a table.
func (c *Client) CreateOrder(ctx context.Context, order *models.Order) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/orders", body: order}, nil)
}

// GetOrder fetches an order with its detail lines.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(orderID)}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders lists orders matching the filters.
func (c *Client) ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	q := url.Values{}
	if filters.TableID != nil {
		q.Set("table_id", *filters.TableID)
	}
	if filters.Status != nil {
		q.Set("status", *filters.Status)
	}
	if filters.Date != nil {
		q.Set("date", *filters.Date)
	}
	if filters.Page > 0 {
		q.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filters.PageSize))
	}
	var orders []models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders", query: q}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrder replaces the items, discount and totals of an open order.
func (c *Client) UpdateOrder(ctx context.Context, order *models.Order) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/orders/" + url.PathEscape(order.ID), body: order}, nil)
}

// DeleteOrder removes an order that was opened but never used.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/orders/" + url.PathEscape(orderID)}, nil)
}

// CloseOrder records payment for an order.
func (c *Client) CloseOrder(ctx context.Context, order *models.Order, method models.PaymentMethod, closedAt time.Time) error {
	body := map[string]interface{}{
		"status":         "paid",
		"payment_method": method,
		"closed_at":      closedAt.UTC(),
		"total":          order.Total,
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/orders/" + url.PathEscape(order.ID) + "/close", body: body}, nil)
}

// OrderStats fetches totals and counts by status.
func (c *Client) OrderStats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
