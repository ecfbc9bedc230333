package services

import (
	"context"
	"fmt"
	"strings"

	"resto_pos_terminal/internal/models"
)

// PromotionGateway is the backend promotion API.
type PromotionGateway interface {
	ListPromotions(ctx context.Context) ([]models.Promotion, error)
	GetPromotion(ctx context.Context, id string) (*models.Promotion, error)
	CreatePromotion(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	UpdatePromotion(ctx context.Context, p *models.Promotion) (*models.Promotion, error)
	DeletePromotion(ctx context.Context, id string) error
}

// PromotionService validates promotions before they reach the backend.
type PromotionService interface {
	List(ctx context.Context) ([]models.Promotion, error)
	Get(ctx context.Context, id string) (*models.Promotion, error)
	Create(ctx context.Context, p models.Promotion) (*models.Promotion, error)
	Update(ctx context.Context, id string, p models.Promotion) (*models.Promotion, error)
	Delete(ctx context.Context, id string) error
}

type promotionService struct {
	gw PromotionGateway
}

func NewPromotionService(gw PromotionGateway) PromotionService {
	return &promotionService{gw: gw}
}

func (s *promotionService) List(ctx context.Context) ([]models.Promotion, error) {
	return s.gw.ListPromotions(ctx)
}

func (s *promotionService) Get(ctx context.Context, id string) (*models.Promotion, error) {
	return s.gw.GetPromotion(ctx, id)
}

func (s *promotionService) Create(ctx context.Context, p models.Promotion) (*models.Promotion, error) {
	if err := validatePromotion(&p); err != nil {
		return nil, err
	}
	return s.gw.CreatePromotion(ctx, &p)
}

func (s *promotionService) Update(ctx context.Context, id string, p models.Promotion) (*models.Promotion, error) {
	p.ID = id
	if err := validatePromotion(&p); err != nil {
		return nil, err
	}
	return s.gw.UpdatePromotion(ctx, &p)
}

func (s *promotionService) Delete(ctx context.Context, id string) error {
	return s.gw.DeletePromotion(ctx, id)
}

func validatePromotion(p *models.Promotion) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: promotion name is required", ErrValidation)
	}
	switch p.Type {
	case models.PromotionPercentage:
		if !p.Value.IsPositive() || p.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage must be between 0 and 100", ErrValidation)
		}
	case models.PromotionFixed:
		if !p.Value.IsPositive() {
			return fmt.Errorf("%w: fixed amount must be positive", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: promotion type must be percentage or fixed", ErrValidation)
	}
	if p.StartsAt.IsZero() || p.EndsAt.IsZero() || !p.EndsAt.After(p.StartsAt) {
		return fmt.Errorf("%w: promotion must end after it starts", ErrValidation)
	}
	if p.MinOrderAmount != nil && p.MinOrderAmount.IsNegative() {
		return fmt.Errorf("%w: minimum order amount cannot be negative", ErrValidation)
	}
	return nil
}
