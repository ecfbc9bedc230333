package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"resto_pos_terminal/internal/events"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// OpenOrder seats walk-in guests: the table becomes Occupied with a new empty order.
func (s *stateService) OpenOrder(ctx context.Context, tableID string) (*models.Order, error) {
	s.mu.Lock()
	t, ok := s.tables[tableID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: table %s", ErrNotFound, tableID)
	}
	if t.Status != models.TableStatusAvailable && t.Status != models.TableStatusReserved {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: table %s is %s", ErrInvalidState, tableID, t.Status)
	}
	if err := s.claimLocked(tableKey(tableID)); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	order := &models.Order{
		ID:        s.nextIDLocked(nsOrder, s.orderIDsLocked()),
		TableID:   tableID,
		Items:     []models.OrderItem{},
		CreatedAt: s.now(),
	}
	previous := t.Status
	s.mu.Unlock()
	defer s.release(tableKey(tableID))
	defer s.releaseID(nsOrder, order.ID)

	order.Recalculate(s.scale)
	if err := s.backend.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("opening order for table %s: %w", tableID, err)
	}
	orderID := order.ID
	if err := s.backend.UpdateTableStatus(ctx, tableID, models.TableStatusOccupied, &orderID); err != nil {
		s.rollbackOpenings(ctx, []openedTable{{orderID: orderID, tableID: tableID, previous: previous}})
		return nil, fmt.Errorf("occupying table %s: %w", tableID, err)
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	t.Status = models.TableStatusOccupied
	t.OrderID = &orderID
	table := *t
	snapshot := order.Clone()
	s.mu.Unlock()

	s.publishTable(ctx, table, previous)
	s.publishOrder(ctx, events.EventOrderOpened, *snapshot)
	return snapshot, nil
}

func (s *stateService) AddOrderItem(ctx context.Context, orderID string, item models.OrderItem) (*models.Order, error) {
	if utils.IsEmpty(item.MenuItemID) {
		return nil, fmt.Errorf("%w: menu item is required", ErrValidation)
	}
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if item.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	}
	item.Notes = utils.NilIfBlank(item.Notes)
	item.Size = utils.NilIfBlank(item.Size)
	return s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		o.AddItem(item)
		return nil
	})
}

func (s *stateService) RemoveOrderItem(ctx context.Context, orderID string, line int) (*models.Order, error) {
	return s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		if line < 0 || line >= len(o.Items) {
			return fmt.Errorf("%w: order %s has no line %d", ErrValidation, orderID, line)
		}
		o.Items = append(o.Items[:line], o.Items[line+1:]...)
		return nil
	})
}

// SetItemQuantity changes a line's quantity. Use RemoveOrderItem to drop a line.
func (s *stateService) SetItemQuantity(ctx context.Context, orderID string, line, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		if line < 0 || line >= len(o.Items) {
			return fmt.Errorf("%w: order %s has no line %d", ErrValidation, orderID, line)
		}
		o.Items[line].Quantity = quantity
		return nil
	})
}

// ApplyDiscount sets the order's discount percentage (0 to 100).
func (s *stateService) ApplyDiscount(ctx context.Context, orderID string, percent string) (*models.Order, error) {
	discount, err := parseDiscount(percent)
	if err != nil {
		return nil, err
	}
	return s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		o.Discount = discount
		return nil
	})
}

// ApplyPromotion applies an active, order-wide percentage promotion as the order discount.
func (s *stateService) ApplyPromotion(ctx context.Context, orderID, promotionID string) (*models.Order, error) {
	promo, err := s.backend.GetPromotion(ctx, promotionID)
	if err != nil {
		return nil, fmt.Errorf("loading promotion %s: %w", promotionID, err)
	}
	if !promo.ActiveAt(s.now()) {
		return nil, fmt.Errorf("%w: promotion %s is not active", ErrInvalidState, promotionID)
	}
	if promo.Type != models.PromotionPercentage {
		return nil, fmt.Errorf("%w: only percentage promotions can be applied to an order", ErrValidation)
	}
	if !promo.IsOrderWide() {
		return nil, fmt.Errorf("%w: promotion %s is limited to specific items", ErrValidation, promotionID)
	}
	discount, err := parseDiscount(promo.Value.String())
	if err != nil {
		return nil, err
	}
	return s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		if promo.MinOrderAmount != nil && o.Subtotal.LessThan(*promo.MinOrderAmount) {
			return fmt.Errorf("%w: order subtotal %s is below the promotion minimum %s",
				ErrValidation, o.Subtotal.String(), promo.MinOrderAmount.String())
		}
		o.Discount = discount
		return nil
	})
}

func parseDiscount(percent string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(percent))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: discount %q is not a number", ErrValidation, percent)
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	}
	return d, nil
}

// mutateOrder applies fn to a copy of an open order, saves it on the backend and
// swaps the copy in. The mirror keeps the old order if anything fails.
func (s *stateService) mutateOrder(ctx context.Context, orderID string, fn func(o *models.Order) error) (*models.Order, error) {
	s.mu.Lock()
	current, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if !current.IsOpen() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: order %s is closed", ErrInvalidState, orderID)
	}
	if err := s.claimLocked(orderKey(orderID)); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	updated := current.Clone()
	s.mu.Unlock()
	defer s.release(orderKey(orderID))

	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.Recalculate(s.scale)
	if err := s.backend.UpdateOrder(ctx, updated); err != nil {
		return nil, fmt.Errorf("updating order %s: %w", orderID, err)
	}

	s.mu.Lock()
	s.orders[orderID] = updated
	snapshot := updated.Clone()
	s.mu.Unlock()

	s.publishOrder(ctx, events.EventOrderUpdated, *snapshot)
	return snapshot, nil
}

// CloseOrder records payment, freezes the total and releases the table to
// releaseTo (Available when blank, or CleaningNeeded).
func (s *stateService) CloseOrder(ctx context.Context, orderID string, method string, releaseTo models.TableStatus) (*models.Order, error) {
	if !models.IsValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}
	if releaseTo == "" {
		releaseTo = models.TableStatusAvailable
	}
	if releaseTo != models.TableStatusAvailable && releaseTo != models.TableStatusCleaningNeeded {
		return nil, fmt.Errorf("%w: a table can only be released to available or cleaning_needed", ErrValidation)
	}

	s.mu.Lock()
	current, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if !current.IsOpen() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: order %s is already closed", ErrInvalidState, orderID)
	}
	keys := []string{orderKey(orderID), tableKey(current.TableID)}
	if err := s.claimLocked(keys...); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	_, hasTable := s.tables[current.TableID]
	closed := current.Clone()
	s.mu.Unlock()
	defer s.release(keys...)

	pm := models.PaymentMethod(method)
	closedAt := s.now()
	closed.Recalculate(s.scale)
	closed.ClosedAt = &closedAt
	closed.PaymentMethod = &pm

	if err := s.backend.CloseOrder(ctx, closed, pm, closedAt); err != nil {
		return nil, fmt.Errorf("closing order %s: %w", orderID, err)
	}
	if hasTable {
		if err := s.backend.UpdateTableStatus(ctx, closed.TableID, releaseTo, nil); err != nil {
			// The backend already recorded the payment; keep the mirror consistent with it.
			utils.LogError(err, "Order closed but table release failed", map[string]interface{}{
				"order_id": orderID, "table_id": closed.TableID,
			})
		}
	}

	s.mu.Lock()
	s.orders[orderID] = closed
	var table models.Table
	var previous models.TableStatus
	if t, ok := s.tables[closed.TableID]; ok {
		previous = t.Status
		t.Status = releaseTo
		t.OrderID = nil
		table = *t
	}
	snapshot := closed.Clone()
	s.mu.Unlock()

	utils.LogInfo("Order closed", map[string]interface{}{
		"order_id": orderID, "total": snapshot.Total.String(), "payment_method": method,
	})
	if hasTable {
		s.publishTable(ctx, table, previous)
	}
	s.publishOrder(ctx, events.EventOrderClosed, *snapshot)
	return snapshot, nil
}

func (s *stateService) publishOrder(ctx context.Context, eventType string, o models.Order) {
	ev := events.OrderEvent{
		EventType:  eventType,
		OrderID:    o.ID,
		TableID:    o.TableID,
		Total:      o.Total.String(),
		ItemCount:  len(o.Items),
		OccurredAt: s.now(),
	}
	if o.PaymentMethod != nil {
		ev.PaymentMethod = string(*o.PaymentMethod)
	}
	s.publish(ctx, events.OrderTopic, ev)
}
