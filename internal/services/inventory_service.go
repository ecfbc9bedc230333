package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"resto_pos_terminal/internal/events"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

// RecordInventoryIn receives goods. Either every item is applied and one IN
// transaction is recorded, or nothing changes.
func (s *stateService) RecordInventoryIn(ctx context.Context, in models.StockInInput) (*models.InventoryTransaction, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for _, it := range in.Items {
		if utils.IsEmpty(it.IngredientID) {
			return nil, fmt.Errorf("%w: ingredient id is required", ErrValidation)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrValidation, it.IngredientID)
		}
		if it.UnitCost != nil && it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost for %s cannot be negative", ErrValidation, it.IngredientID)
		}
	}
	return s.recordTransaction(ctx, models.InventoryTransactionIn, in.Items, utils.NilIfBlank(in.SupplierID), in.Note)
}

// RecordAdjustment applies signed stock corrections (stocktake, spoilage).
// A correction that would take any stock below zero rejects the whole call.
func (s *stateService) RecordAdjustment(ctx context.Context, items []models.InventoryTransactionItem, note *string) (*models.InventoryTransaction, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	for _, it := range items {
		if utils.IsEmpty(it.IngredientID) {
			return nil, fmt.Errorf("%w: ingredient id is required", ErrValidation)
		}
		if it.Quantity.IsZero() {
			return nil, fmt.Errorf("%w: adjustment for %s must not be zero", ErrValidation, it.IngredientID)
		}
	}
	return s.recordTransaction(ctx, models.InventoryTransactionAdjust, items, nil, note)
}

func (s *stateService) recordTransaction(ctx context.Context, txType models.InventoryTransactionType, items []models.InventoryTransactionItem, supplierID, note *string) (*models.InventoryTransaction, error) {
	s.mu.Lock()
	resulting := map[string]decimal.Decimal{}
	for _, it := range items {
		ing, ok := s.ingredients[it.IngredientID]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: ingredient %s", ErrNotFound, it.IngredientID)
		}
		current, seen := resulting[it.IngredientID]
		if !seen {
			current = ing.Stock
		}
		resulting[it.IngredientID] = current.Add(it.Quantity)
	}
	for id, stock := range resulting {
		if stock.IsNegative() {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: stock of %s would drop below zero", ErrInvariantViolation, id)
		}
	}
	if err := s.claimLocked(inventoryKey); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	existing := make([]string, 0, len(s.transactions))
	for _, tx := range s.transactions {
		existing = append(existing, tx.ID)
	}
	tx := models.InventoryTransaction{
		ID:         s.nextIDLocked(nsTransaction, existing),
		Type:       txType,
		Items:      append([]models.InventoryTransactionItem(nil), items...),
		SupplierID: supplierID,
		CreatedAt:  s.now(),
		Note:       utils.NilIfBlank(note),
	}
	s.mu.Unlock()
	defer s.release(inventoryKey)
	defer s.releaseID(nsTransaction, tx.ID)

	if err := s.backend.RecordTransaction(ctx, &tx); err != nil {
		return nil, fmt.Errorf("recording %s transaction: %w", txType, err)
	}

	s.mu.Lock()
	for id, stock := range resulting {
		s.ingredients[id].Stock = stock
	}
	s.transactions = append(s.transactions, tx)
	s.mu.Unlock()

	ids := make([]string, 0, len(resulting))
	for id := range resulting {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	utils.LogInfo("Inventory transaction recorded", map[string]interface{}{
		"transaction_id": tx.ID, "type": txType, "ingredients": len(ids),
	})
	s.publish(ctx, events.InventoryTopic, events.InventoryEvent{
		EventType:     events.EventInventoryRecorded,
		TransactionID: tx.ID,
		Type:          string(txType),
		IngredientIDs: ids,
		OccurredAt:    tx.CreatedAt,
	})
	return &tx, nil
}

// LowStockIDs lists ingredients below their minimum, recomputed on every call.
func (s *stateService) LowStockIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for id, ing := range s.ingredients {
		if ing.IsLowStock() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
