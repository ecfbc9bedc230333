package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
)

// PromotionHandler manages backend promotions.
type PromotionHandler struct {
	promotions services.PromotionService
	feedback   services.FeedbackService
}

func NewPromotionHandler(promotions services.PromotionService, feedback services.FeedbackService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, feedback: feedback}
}

func (h *PromotionHandler) ListPromotions(c *gin.Context) {
	list, err := h.promotions.List(c.Request.Context())
	if err != nil {
		respondError(c, nil, "List promotions", err)
		return
	}
	if list == nil {
		list = []models.Promotion{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	p, err := h.promotions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, nil, "Get promotion", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var p models.Promotion
	if !bindJSON(c, &p) {
		return
	}
	created, err := h.promotions.Create(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.feedback, "Create promotion", err)
		return
	}
	notifySuccess(h.feedback, "Promotion created", created.Name)
	c.JSON(http.StatusCreated, created)
}

func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	var p models.Promotion
	if !bindJSON(c, &p) {
		return
	}
	updated, err := h.promotions.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, h.feedback, "Update promotion", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	if err := h.promotions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.feedback, "Delete promotion", err)
		return
	}
	c.Status(http.StatusNoContent)
}
