package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

const defaultOrderPageSize = 20

// OrderArchive looks up orders the terminal no longer mirrors.
type OrderArchive interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// OrderHandler holds the order endpoints of the terminal.
type OrderHandler struct {
	state    services.StateService
	archive  OrderArchive
	feedback services.FeedbackService
}

// NewOrderHandler creates a new OrderHandler. archive may be nil.
func NewOrderHandler(state services.StateService, archive OrderArchive, feedback services.FeedbackService) *OrderHandler {
	return &OrderHandler{state: state, archive: archive, feedback: feedback}
}

// GetOrders lists mirrored orders with table_id, status (open|closed), date and paging filters.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if tableID := c.Query("table_id"); tableID != "" {
		filters.TableID = &tableID
	}
	if status := c.Query("status"); status != "" {
		if status != "open" && status != "closed" {
			utils.RespondValidationFailed(c, "status must be open or closed")
			return
		}
		filters.Status = &status
	}
	var day time.Time
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format. Use YYYY-MM-DD.", err.Error()))
			return
		}
		filters.Date = &date
		day = parsed
	}
	filters.Page = utils.StrToIntDefault(c.Query("page"), 1)
	filters.PageSize = utils.StrToIntDefault(c.Query("page_size"), defaultOrderPageSize)
	if filters.Page <= 0 || filters.PageSize <= 0 {
		utils.RespondValidationFailed(c, "page and page_size must be positive integers")
		return
	}

	openOnly := filters.Status != nil && *filters.Status == "open"
	matched := make([]models.Order, 0)
	for _, o := range h.state.Orders(openOnly) {
		if filters.TableID != nil && o.TableID != *filters.TableID {
			continue
		}
		if filters.Status != nil && *filters.Status == "closed" && o.IsOpen() {
			continue
		}
		if filters.Date != nil {
			y, m, d := o.CreatedAt.Date()
			if y != day.Year() || m != day.Month() || d != day.Day() {
				continue
			}
		}
		matched = append(matched, o)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (filters.Page - 1) * filters.PageSize
	if start > total {
		start = total
	}
	end := start + filters.PageSize
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      matched[start:end],
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetOrderByID returns one order, asking the backend for orders outside the mirror.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	order, err := h.state.GetOrder(c.Param("id"))
	if errors.Is(err, services.ErrNotFound) && h.archive != nil {
		order, err = h.archive.GetOrder(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		respondError(c, nil, "Get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AddItem appends a menu item to the order, merging identical lines.
func (h *OrderHandler) AddItem(c *gin.Context) {
	var item models.OrderItem
	if !bindJSON(c, &item) {
		return
	}
	h.respondOrder(c, "Add item")(h.state.AddOrderItem(c.Request.Context(), c.Param("id"), item))
}

// RemoveItem drops the line at :line.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	line, ok := lineParam(c)
	if !ok {
		return
	}
	h.respondOrder(c, "Remove item")(h.state.RemoveOrderItem(c.Request.Context(), c.Param("id"), line))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetItemQuantity sets the quantity of the line at :line.
func (h *OrderHandler) SetItemQuantity(c *gin.Context) {
	line, ok := lineParam(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondOrder(c, "Change quantity")(h.state.SetItemQuantity(c.Request.Context(), c.Param("id"), line, req.Quantity))
}

type applyDiscountRequest struct {
	Percent string `json:"percent" binding:"required"`
}

// ApplyDiscount sets the order-level percentage discount.
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	var req applyDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondOrder(c, "Apply discount")(h.state.ApplyDiscount(c.Request.Context(), c.Param("id"), req.Percent))
}

type applyPromotionRequest struct {
	PromotionID string `json:"promotion_id" binding:"required"`
}

// ApplyPromotion applies a backend promotion as the order discount.
func (h *OrderHandler) ApplyPromotion(c *gin.Context) {
	var req applyPromotionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondOrder(c, "Apply promotion")(h.state.ApplyPromotion(c.Request.Context(), c.Param("id"), req.PromotionID))
}

type closeOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	ReleaseTo     string `json:"release_to"`
}

// CloseOrder takes payment and releases the table.
func (h *OrderHandler) CloseOrder(c *gin.Context) {
	var req closeOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.state.CloseOrder(c.Request.Context(), c.Param("id"), req.PaymentMethod, models.TableStatus(req.ReleaseTo))
	if err != nil {
		respondError(c, h.feedback, "Close order", err)
		return
	}
	notifySuccess(h.feedback, "Payment received", order.Total.String())
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) respondOrder(c *gin.Context, action string) func(*models.Order, error) {
	return func(order *models.Order, err error) {
		if err != nil {
			respondError(c, h.feedback, action, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func lineParam(c *gin.Context) (int, bool) {
	line, err := strconv.Atoi(c.Param("line"))
	if err != nil || line < 0 {
		utils.RespondValidationFailed(c, "line must be a non-negative integer")
		return 0, false
	}
	return line, true
}
