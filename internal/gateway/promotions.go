package gateway

import (
	"context"
	"net/http"
	"net/url"

	"resto_pos_terminal/internal/models"
)

// ListPromotions returns all promotions.
func (c *Client) ListPromotions(ctx context.Context) ([]models.Promotion, error) {
	var promos []models.Promotion
	if err := c.do(ctx, request{method: http.MethodGet, path: "/promotions"}, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// GetPromotion fetches one promotion.
func (c *Client) GetPromotion(ctx context.Context, id string) (*models.Promotion, error) {
	var promo models.Promotion
	if err := c.do(ctx, request{method: http.MethodGet, path: "/promotions/" + url.PathEscape(id)}, &promo); err != nil {
		return nil, err
	}
	return &promo, nil
}

// CreatePromotion creates a promotion and returns it as stored.
func (c *Client) CreatePromotion(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	var created models.Promotion
	if err := c.do(ctx, request{method: http.MethodPost, path: "/promotions", body: p}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePromotion replaces a promotion.
func (c *Client) UpdatePromotion(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	var updated models.Promotion
	if err := c.do(ctx, request{method: http.MethodPut, path: "/promotions/" + url.PathEscape(p.ID), body: p}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePromotion removes a promotion.
func (c *Client) DeletePromotion(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/promotions/" + url.PathEscape(id)}, nil)
}
