package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/models"
)

var errBackendDown = errors.New("backend down")

// fakeBackend records calls and fails the methods named in failOn.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]error
	// block, when set, holds the named call until the channel is closed.
	block     map[string]chan struct{}
	entered   chan string
	booking   *gateway.BookingResult
	promotion *models.Promotion
	stats     *models.OrderStats

	tables       []models.Table
	orders       []models.Order
	reservations []models.Reservation
	ingredients  []models.Ingredient

	// tableWrites holds "tableID=status" for every UpdateTableStatus call.
	tableWrites []string
	deleted     []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failOn: map[string]error{}, block: map[string]chan struct{}{}, entered: make(chan string, 16)}
}

func (f *fakeBackend) call(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.failOn[name]
	gate := f.block[name]
	f.mu.Unlock()
	if gate != nil {
		f.entered <- name
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListTables(ctx context.Context) ([]models.Table, error) {
	return f.tables, f.call(ctx, "ListTables")
}

func (f *fakeBackend) UpdateTableStatus(ctx context.Context, tableID string, status models.TableStatus, _ *string) error {
	if err := f.call(ctx, "UpdateTableStatus"); err != nil {
		return err
	}
	f.mu.Lock()
	f.tableWrites = append(f.tableWrites, tableID+"="+string(status))
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, _ *models.Order) error {
	return f.call(ctx, "CreateOrder")
}

func (f *fakeBackend) DeleteOrder(ctx context.Context, orderID string) error {
	if err := f.call(ctx, "DeleteOrder"); err != nil {
		return err
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, orderID)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) ListOrders(ctx context.Context, _ models.OrderFilters) ([]models.Order, error) {
	return f.orders, f.call(ctx, "ListOrders")
}

func (f *fakeBackend) UpdateOrder(ctx context.Context, _ *models.Order) error {
	return f.call(ctx, "UpdateOrder")
}

func (f *fakeBackend) CloseOrder(ctx context.Context, _ *models.Order, _ models.PaymentMethod, _ time.Time) error {
	return f.call(ctx, "CloseOrder")
}

func (f *fakeBackend) OrderStats(ctx context.Context) (*models.OrderStats, error) {
	if err := f.call(ctx, "OrderStats"); err != nil {
		return nil, err
	}
	return f.stats, nil
}

func (f *fakeBackend) CreateBooking(ctx context.Context, _ *models.Reservation, _ *string) (*gateway.BookingResult, error) {
	if err := f.call(ctx, "CreateBooking"); err != nil {
		return nil, err
	}
	return f.booking, nil
}

func (f *fakeBackend) UpdateBookingStatus(ctx context.Context, _ string, _ models.ReservationStatus) error {
	return f.call(ctx, "UpdateBookingStatus")
}

func (f *fakeBackend) ListBookings(ctx context.Context) ([]models.Reservation, error) {
	return f.reservations, f.call(ctx, "ListBookings")
}

func (f *fakeBackend) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return f.ingredients, f.call(ctx, "ListIngredients")
}

func (f *fakeBackend) RecordTransaction(ctx context.Context, _ *models.InventoryTransaction) error {
	return f.call(ctx, "RecordTransaction")
}

func (f *fakeBackend) GetPromotion(ctx context.Context, _ string) (*models.Promotion, error) {
	if err := f.call(ctx, "GetPromotion"); err != nil {
		return nil, err
	}
	return f.promotion, nil
}

// recordingPublisher keeps published topics for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
