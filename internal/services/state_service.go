package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"resto_pos_terminal/internal/events"
	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

// StateBackend is the part of the backend gateway the state service depends on.
type StateBackend interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	UpdateTableStatus(ctx context.Context, tableID string, status models.TableStatus, orderID *string) error

	CreateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, orderID string) error
	ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	CloseOrder(ctx context.Context, order *models.Order, method models.PaymentMethod, closedAt time.Time) error
	OrderStats(ctx context.Context) (*models.OrderStats, error)

	CreateBooking(ctx context.Context, r *models.Reservation, customerID *string) (*gateway.BookingResult, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status models.ReservationStatus) error
	ListBookings(ctx context.Context) ([]models.Reservation, error)

	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	RecordTransaction(ctx context.Context, tx *models.InventoryTransaction) error

	GetPromotion(ctx context.Context, id string) (*models.Promotion, error)
}

// StateService is the single writer of tables, orders, reservations and inventory
// for the terminal session. Every mutation calls the backend first and applies the
// change locally only once the backend accepted it.
type StateService interface {
	Hydrate(ctx context.Context) error
	SeedTables(tables []models.Table) error
	SeedIngredients(ingredients []models.Ingredient) error

	Tables() []models.Table
	Orders(openOnly bool) []models.Order
	Reservations() []models.Reservation
	Ingredients() []models.Ingredient
	Transactions() []models.InventoryTransaction
	GetOrder(orderID string) (*models.Order, error)
	GetOrderForTable(tableID string) (*models.Order, bool)
	UpdateTableStatus(ctx context.Context, tableID string, status models.TableStatus) (*models.Table, error)

	CreateReservation(ctx context.Context, in models.CreateReservationInput) (*ReservationResult, error)
	ConfirmArrival(ctx context.Context, reservationID string) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) (*models.Reservation, error)
	MarkNoShow(ctx context.Context, reservationID string) (*models.Reservation, error)
	ResumeBookingPayment(ctx context.Context, reservationID, status string) (*models.Reservation, error)

	OpenOrder(ctx context.Context, tableID string) (*models.Order, error)
	AddOrderItem(ctx context.Context, orderID string, item models.OrderItem) (*models.Order, error)
	RemoveOrderItem(ctx context.Context, orderID string, line int) (*models.Order, error)
	SetItemQuantity(ctx context.Context, orderID string, line, quantity int) (*models.Order, error)
	ApplyDiscount(ctx context.Context, orderID string, percent string) (*models.Order, error)
	ApplyPromotion(ctx context.Context, orderID, promotionID string) (*models.Order, error)
	CloseOrder(ctx context.Context, orderID string, method string, releaseTo models.TableStatus) (*models.Order, error)

	RecordInventoryIn(ctx context.Context, in models.StockInInput) (*models.InventoryTransaction, error)
	RecordAdjustment(ctx context.Context, items []models.InventoryTransactionItem, note *string) (*models.InventoryTransaction, error)
	LowStockIDs() []string

	KitchenQueue() []models.KitchenTicket
	OrderStats(ctx context.Context) models.OrderStats
	Dashboard(ctx context.Context) models.DashboardSummary
}

// StateOptions tune a state service. A nil Publisher or Now picks the default;
// a negative CurrencyScale means 2.
type StateOptions struct {
	Publisher     events.Publisher
	Now           func() time.Time
	CurrencyScale int32 // decimal places totals are rounded to
}

type stateService struct {
	backend   StateBackend
	publisher events.Publisher
	now       func() time.Time
	scale     int32

	mu           sync.Mutex
	tables       map[string]*models.Table
	orders       map[string]*models.Order
	reservations map[string]*models.Reservation
	ingredients  map[string]*models.Ingredient
	transactions []models.InventoryTransaction

	inFlight    map[string]bool
	reservedIDs map[string]bool
	// mutations counts writes started on the mirror; Hydrate refuses to commit
	// a snapshot when it moved during the backend reads.
	mutations uint64
}

// NewStateService creates the state service with an empty mirror.
func NewStateService(backend StateBackend, opts StateOptions) StateService {
	s := &stateService{
		backend:      backend,
		publisher:    opts.Publisher,
		now:          opts.Now,
		scale:        opts.CurrencyScale,
		tables:       map[string]*models.Table{},
		orders:       map[string]*models.Order{},
		reservations: map[string]*models.Reservation{},
		ingredients:  map[string]*models.Ingredient{},
		inFlight:     map[string]bool{},
		reservedIDs:  map[string]bool{},
	}
	if s.publisher == nil {
		s.publisher = events.LogPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.scale < 0 {
		s.scale = 2
	}
	return s
}

// --- in-flight guard ---

func tableKey(id string) string       { return "table:" + id }
func orderKey(id string) string       { return "order:" + id }
func reservationKey(id string) string { return "reservation:" + id }

const inventoryKey = "inventory"

// claimLocked marks keys as in flight; it fails without claiming anything if one is taken.
func (s *stateService) claimLocked(keys ...string) error {
	for _, k := range keys {
		if s.inFlight[k] {
			return fmt.Errorf("%w: %s", ErrOperationInFlight, k)
		}
	}
	for _, k := range keys {
		s.inFlight[k] = true
	}
	s.mutations++
	return nil
}

func (s *stateService) pendingLocked() bool {
	return len(s.inFlight) > 0 || len(s.reservedIDs) > 0
}

func (s *stateService) release(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.inFlight, k)
	}
}

// openedTable is a backend order opening that a later failure has to undo.
type openedTable struct {
	orderID  string
	tableID  string
	previous models.TableStatus
	occupied bool
}

// rollbackOpenings deletes the backend orders in opened and puts their tables back,
// newest first. Failures are logged; the mirror was never touched.
func (s *stateService) rollbackOpenings(ctx context.Context, opened []openedTable) {
	ctx = context.WithoutCancel(ctx)
	for i := len(opened) - 1; i >= 0; i-- {
		o := opened[i]
		if o.occupied {
			if err := s.backend.UpdateTableStatus(ctx, o.tableID, o.previous, nil); err != nil {
				utils.LogError(err, "Failed to restore table after aborted opening", map[string]interface{}{
					"table_id": o.tableID, "status": string(o.previous),
				})
			}
		}
		if err := s.backend.DeleteOrder(ctx, o.orderID); err != nil {
			utils.LogError(err, "Failed to delete order after aborted opening", map[string]interface{}{
				"order_id": o.orderID, "table_id": o.tableID,
			})
		}
	}
}

// --- date-sequence ids (DDMMYYYYNNN) ---

// nextIDLocked returns the next free id for today in a collection and reserves it
// until releaseID is called, so concurrent creations never pick the same sequence.
func (s *stateService) nextIDLocked(namespace string, existing []string) string {
	prefix := s.now().Format("02012006")
	max := 0
	consider := func(id string) {
		if !strings.HasPrefix(id, prefix) || len(id) < len(prefix)+3 {
			return
		}
		seq, err := strconv.Atoi(id[len(prefix):])
		if err == nil && seq > max {
			max = seq
		}
	}
	for _, id := range existing {
		consider(id)
	}
	for key := range s.reservedIDs {
		if id, ok := strings.CutPrefix(key, namespace+":"); ok {
			consider(id)
		}
	}
	id := fmt.Sprintf("%s%03d", prefix, max+1)
	s.reservedIDs[namespace+":"+id] = true
	s.mutations++
	return id
}

func (s *stateService) releaseID(namespace, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reservedIDs, namespace+":"+id)
}

func (s *stateService) orderIDsLocked() []string {
	ids := make([]string, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	return ids
}

const (
	nsOrder       = "order"
	nsReservation = "reservation"
	nsTransaction = "transaction"
)

func (s *stateService) publish(ctx context.Context, topic string, event interface{}) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		utils.LogError(err, "Failed to publish domain event", map[string]interface{}{"topic": topic})
	}
}

func (s *stateService) publishTable(ctx context.Context, t models.Table, previous models.TableStatus) {
	s.publish(ctx, events.TableStatusTopic, events.TableStatusEvent{
		EventType:      events.EventTableStatusChanged,
		TableID:        t.ID,
		Status:         string(t.Status),
		PreviousStatus: string(previous),
		OrderID:        t.OrderID,
		OccurredAt:     s.now(),
	})
}

// --- hydration and seeding ---

func (s *stateService) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.pendingLocked() {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot reload while operations are pending", ErrOperationInFlight)
	}
	mark := s.mutations
	s.mu.Unlock()

	tables, err := s.backend.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	openStatus := "open"
	orders, err := s.backend.ListOrders(ctx, models.OrderFilters{Status: &openStatus})
	if err != nil {
		return fmt.Errorf("loading open orders: %w", err)
	}
	reservations, err := s.backend.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("loading reservations: %w", err)
	}
	ingredients, err := s.backend.ListIngredients(ctx)
	if err != nil {
		return fmt.Errorf("loading ingredients: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingLocked() || s.mutations != mark {
		return fmt.Errorf("%w: state changed while reloading", ErrOperationInFlight)
	}

	s.tables = make(map[string]*models.Table, len(tables))
	for i := range tables {
		t := tables[i]
		s.tables[t.ID] = &t
	}
	s.orders = make(map[string]*models.Order, len(orders))
	for i := range orders {
		o := orders[i]
		if !o.IsOpen() {
			continue
		}
		o.Recalculate(s.scale)
		s.orders[o.ID] = &o
	}
	s.reservations = make(map[string]*models.Reservation, len(reservations))
	for i := range reservations {
		r := reservations[i]
		s.reservations[r.ID] = &r
	}
	s.ingredients = make(map[string]*models.Ingredient, len(ingredients))
	for i := range ingredients {
		ing := ingredients[i]
		s.ingredients[ing.ID] = &ing
	}
	s.reconcileLocked()

	utils.LogInfo("State hydrated from backend", map[string]interface{}{
		"tables": len(s.tables), "open_orders": len(s.orders),
		"reservations": len(s.reservations), "ingredients": len(s.ingredients),
	})
	return nil
}

// reconcileLocked repairs backend data that breaks the occupied/order invariant.
func (s *stateService) reconcileLocked() {
	openByTable := map[string]string{}
	for _, o := range s.orders {
		if o.IsOpen() {
			openByTable[o.TableID] = o.ID
		}
	}
	for _, t := range s.tables {
		orderID, hasOpen := openByTable[t.ID]
		switch {
		case hasOpen:
			if t.Status != models.TableStatusOccupied || t.OrderID == nil || *t.OrderID != orderID {
				utils.LogWarn("Binding table to its open order", map[string]interface{}{"table_id": t.ID, "order_id": orderID})
			}
			id := orderID
			t.Status = models.TableStatusOccupied
			t.OrderID = &id
		case t.Status == models.TableStatusOccupied || t.OrderID != nil:
			utils.LogWarn("Releasing occupied table without an open order", map[string]interface{}{"table_id": t.ID})
			t.Status = models.TableStatusAvailable
			t.OrderID = nil
		}
	}
}

func (s *stateService) SeedTables(tables []models.Table) error {
	for _, t := range tables {
		if utils.IsEmpty(t.ID) {
			return fmt.Errorf("%w: table id is required", ErrValidation)
		}
		if t.Capacity <= 0 {
			return fmt.Errorf("%w: table %s capacity must be positive", ErrValidation, t.ID)
		}
		if t.Status == models.TableStatusOccupied {
			return fmt.Errorf("%w: table %s cannot be seeded as occupied", ErrInvariantViolation, t.ID)
		}
		if t.Status != "" && !models.IsValidTableStatus(string(t.Status)) {
			return fmt.Errorf("%w: table %s has unknown status %q", ErrValidation, t.ID, t.Status)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tables {
		if _, exists := s.tables[t.ID]; exists {
			continue
		}
		seeded := t
		seeded.OrderID = nil
		if seeded.Status == "" {
			seeded.Status = models.TableStatusAvailable
		}
		s.tables[seeded.ID] = &seeded
	}
	return nil
}

func (s *stateService) SeedIngredients(ingredients []models.Ingredient) error {
	for _, ing := range ingredients {
		if utils.IsEmpty(ing.ID) {
			return fmt.Errorf("%w: ingredient id is required", ErrValidation)
		}
		if ing.Stock.IsNegative() {
			return fmt.Errorf("%w: ingredient %s stock cannot be negative", ErrInvariantViolation, ing.ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ing := range ingredients {
		if _, exists := s.ingredients[ing.ID]; exists {
			continue
		}
		seeded := ing
		s.ingredients[seeded.ID] = &seeded
	}
	return nil
}

// --- snapshots ---

func (s *stateService) Tables() []models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *stateService) Orders(openOnly bool) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if openOnly && !o.IsOpen() {
			continue
		}
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *stateService) Reservations() []models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, cloneReservation(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *stateService) Ingredients() []models.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Ingredient, 0, len(s.ingredients))
	for _, ing := range s.ingredients {
		out = append(out, *ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *stateService) Transactions() []models.InventoryTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryTransaction(nil), s.transactions...)
}

func (s *stateService) GetOrder(orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return o.Clone(), nil
}

// GetOrderForTable returns the open order bound to a table.
func (s *stateService) GetOrderForTable(tableID string) (*models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.openOrderForTableLocked(tableID)
	if o == nil {
		return nil, false
	}
	return o.Clone(), true
}

func (s *stateService) openOrderForTableLocked(tableID string) *models.Order {
	for _, o := range s.orders {
		if o.TableID == tableID && o.IsOpen() {
			return o
		}
	}
	return nil
}

// --- tables ---

// UpdateTableStatus is the administrative override. It never creates or closes
// orders, so it rejects any status that would disagree with the table's order binding.
func (s *stateService) UpdateTableStatus(ctx context.Context, tableID string, status models.TableStatus) (*models.Table, error) {
	if !models.IsValidTableStatus(string(status)) {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrValidation, status)
	}

	s.mu.Lock()
	t, ok := s.tables[tableID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: table %s", ErrNotFound, tableID)
	}
	open := s.openOrderForTableLocked(tableID)
	if status == models.TableStatusOccupied && open == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: table %s cannot be occupied without an open order", ErrInvariantViolation, tableID)
	}
	if status != models.TableStatusOccupied && open != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: table %s still has open order %s", ErrInvariantViolation, tableID, open.ID)
	}
	if err := s.claimLocked(tableKey(tableID)); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	previous := t.Status
	orderID := t.OrderID
	s.mu.Unlock()
	defer s.release(tableKey(tableID))

	if err := s.backend.UpdateTableStatus(ctx, tableID, status, orderID); err != nil {
		return nil, fmt.Errorf("updating table %s status: %w", tableID, err)
	}

	s.mu.Lock()
	t.Status = status
	snapshot := *t
	s.mu.Unlock()

	s.publishTable(ctx, snapshot, previous)
	return &snapshot, nil
}

// --- derived views ---

func (s *stateService) KitchenQueue() []models.KitchenTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	var open []*models.Order
	for _, o := range s.orders {
		if o.IsOpen() && len(o.Items) > 0 {
			open = append(open, o)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.Before(open[j].CreatedAt)
		}
		return open[i].ID < open[j].ID
	})
	tickets := make([]models.KitchenTicket, 0, len(open))
	for _, o := range open {
		name := o.TableID
		if t, ok := s.tables[o.TableID]; ok {
			name = t.Name
		}
		tickets = append(tickets, models.KitchenTicket{
			TableID:   o.TableID,
			TableName: name,
			OrderID:   o.ID,
			Items:     append([]models.OrderItem(nil), o.Items...),
		})
	}
	return tickets
}

// OrderStats is advisory: a backend failure yields zeroed stats.
func (s *stateService) OrderStats(ctx context.Context) models.OrderStats {
	stats, err := s.backend.OrderStats(ctx)
	if err != nil || stats == nil {
		utils.LogError(err, "Order stats unavailable, returning empty stats")
		return models.OrderStats{CountByStatus: map[string]int{}}
	}
	if stats.CountByStatus == nil {
		stats.CountByStatus = map[string]int{}
	}
	return *stats
}

func (s *stateService) Dashboard(ctx context.Context) models.DashboardSummary {
	stats := s.OrderStats(ctx)
	lowStock := len(s.LowStockIDs())

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := models.DashboardSummary{
		TablesByStatus:     map[models.TableStatus]int{},
		LowStockItemsCount: lowStock,
		Stats:              stats,
	}
	for _, t := range s.tables {
		summary.TablesByStatus[t.Status]++
	}
	for _, o := range s.orders {
		if o.IsOpen() {
			summary.OpenOrdersCount++
		}
	}
	now := s.now()
	for _, r := range s.reservations {
		if r.Status == models.ReservationStatusBooked && !r.Time.Before(now) && r.Time.Before(now.Add(24*time.Hour)) {
			summary.UpcomingBookings++
		}
	}
	return summary
}

func cloneReservation(r *models.Reservation) models.Reservation {
	c := *r
	c.TableIDs = append([]string(nil), r.TableIDs...)
	return c
}
