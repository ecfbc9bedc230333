package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

// BookingResult is the backend's answer to a booking submission. When RequirePayment
// is set the customer must complete the deposit at PaymentURL before the booking is final.
type BookingResult struct {
	ID             string           `json:"id"`
	RequirePayment bool             `json:"require_payment"`
	PaymentURL     *string          `json:"payment_url,omitempty"`
	DepositAmount  *decimal.Decimal `json:"deposit_amount,omitempty"`
}

type wireBooking struct {
	ID             string           `json:"id"`
	CustomerName   string           `json:"customer_name"`
	Phone          *string          `json:"phone"`
	PartySize      int              `json:"party_size"`
	Time           time.Time        `json:"time"`
	Status         string           `json:"status"`
	TableID        *string          `json:"table_id"`
	TableIDs       []string         `json:"table_ids"`
	Source         string           `json:"source"`
	Notes          *string          `json:"notes"`
	RequirePayment bool             `json:"require_payment"`
	DepositAmount  *decimal.Decimal `json:"deposit_amount"`
	DepositPaid    bool             `json:"deposit_paid"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (w wireBooking) toModel() models.Reservation {
	status, ok := NormalizeReservationStatus(w.Status)
	if !ok {
		utils.LogWarn("Unrecognized booking status from backend", map[string]interface{}{
			"booking_id": w.ID, "status": w.Status,
		})
		status = models.ReservationStatusBooked
	}
	source, ok := models.ParseReservationSource(w.Source)
	if !ok {
		source = models.ReservationSourceApp
	}
	tables := models.CreateReservationInput{TableID: w.TableID, TableIDs: w.TableIDs}.AssignedTables()
	return models.Reservation{
		ID:             w.ID,
		CustomerName:   w.CustomerName,
		Phone:          w.Phone,
		PartySize:      w.PartySize,
		Time:           w.Time,
		Status:         status,
		TableIDs:       tables,
		Source:         source,
		Notes:          w.Notes,
		RequirePayment: w.RequirePayment,
		DepositAmount:  w.DepositAmount,
		DepositPaid:    w.DepositPaid,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.CreatedAt,
	}
}

func toModels(wire []wireBooking) []models.Reservation {
	out := make([]models.Reservation, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out
}

// CreateBooking submits a reservation. customerID links online bookings to an account.
func (c *Client) CreateBooking(ctx context.Context, r *models.Reservation, customerID *string) (*BookingResult, error) {
	body := map[string]interface{}{
		"id":            r.ID,
		"customer_name": r.CustomerName,
		"phone":         r.Phone,
		"party_size":    r.PartySize,
		"time":          r.Time.UTC(),
		"table_ids":     r.TableIDs,
		"source":        r.Source,
		"notes":         r.Notes,
		"customer_id":   customerID,
	}
	var result BookingResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/bookings", body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBookingStatus transitions a booking on the backend.
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status models.ReservationStatus) error {
	body := map[string]interface{}{"status": status}
	return c.do(ctx, request{method: http.MethodPatch, path: "/bookings/" + url.PathEscape(bookingID) + "/status", body: body}, nil)
}

// ListBookings lists all bookings visible to staff.
func (c *Client) ListBookings(ctx context.Context) ([]models.Reservation, error) {
	var wire []wireBooking
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bookings"}, &wire); err != nil {
		return nil, err
	}
	return toModels(wire), nil
}

// ListMyBookings lists the bookings of the customer owning token.
func (c *Client) ListMyBookings(ctx context.Context, token string) ([]models.Reservation, error) {
	var wire []wireBooking
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bookings/me", token: &token}, &wire); err != nil {
		return nil, err
	}
	return toModels(wire), nil
}

// CancelBooking cancels one of the customer's own bookings.
func (c *Client) CancelBooking(ctx context.Context, bookingID, token string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/bookings/" + url.PathEscape(bookingID) + "/cancel", token: &token}, nil)
}
