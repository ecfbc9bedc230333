package handlers

import (
	"context"
	"sync"
	"time"

	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/models"
)

// stubBackend accepts every write and serves fixed reads.
type stubBackend struct {
	mu           sync.Mutex
	bookings     []*models.Reservation
	customerIDs  []*string
	closeErr     error
	tables       []models.Table
	listTableErr error
}

func (b *stubBackend) ListTables(context.Context) ([]models.Table, error) {
	return b.tables, b.listTableErr
}

func (b *stubBackend) UpdateTableStatus(context.Context, string, models.TableStatus, *string) error {
	return nil
}

func (b *stubBackend) CreateOrder(context.Context, *models.Order) error { return nil }
func (b *stubBackend) DeleteOrder(context.Context, string) error        { return nil }

func (b *stubBackend) ListOrders(context.Context, models.OrderFilters) ([]models.Order, error) {
	return nil, nil
}

func (b *stubBackend) UpdateOrder(context.Context, *models.Order) error { return nil }

func (b *stubBackend) CloseOrder(context.Context, *models.Order, models.PaymentMethod, time.Time) error {
	return b.closeErr
}

func (b *stubBackend) OrderStats(context.Context) (*models.OrderStats, error) {
	return nil, gateway.ErrNetwork
}

func (b *stubBackend) CreateBooking(_ context.Context, r *models.Reservation, customerID *string) (*gateway.BookingResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bookings = append(b.bookings, r)
	b.customerIDs = append(b.customerIDs, customerID)
	return nil, nil
}

func (b *stubBackend) UpdateBookingStatus(context.Context, string, models.ReservationStatus) error {
	return nil
}

func (b *stubBackend) ListBookings(context.Context) ([]models.Reservation, error) { return nil, nil }

func (b *stubBackend) ListIngredients(context.Context) ([]models.Ingredient, error) { return nil, nil }

func (b *stubBackend) RecordTransaction(context.Context, *models.InventoryTransaction) error {
	return nil
}

func (b *stubBackend) GetPromotion(context.Context, string) (*models.Promotion, error) {
	return nil, &gateway.Error{StatusCode: 404, Message: "promotion not found"}
}

type stubSuppliers struct{}

func (stubSuppliers) ListSuppliers(context.Context) ([]models.Supplier, error) {
	return []models.Supplier{{ID: "s1", Name: "Green Farm"}}, nil
}

type archiveStub struct{}

func (archiveStub) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	if orderID == "01012020001" {
		return &models.Order{ID: orderID, TableID: "t9"}, nil
	}
	return nil, &gateway.Error{StatusCode: 404, Message: "order not found"}
}
