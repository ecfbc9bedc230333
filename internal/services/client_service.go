package services

import (
	"context"
	"fmt"
	"time"

	"resto_pos_terminal/internal/models"
)

// CustomerGateway is the part of the backend gateway used by signed-in guests.
type CustomerGateway interface {
	ListTablesByTime(ctx context.Context, at time.Time, partySize int, customerID *string) ([]models.TableAvailability, error)
	ListMyBookings(ctx context.Context, token string) ([]models.Reservation, error)
	CancelBooking(ctx context.Context, bookingID, token string) error
}

// CustomerService serves the guest-facing booking screens. Calls are made with
// the signed-in customer's own backend token.
type CustomerService interface {
	Availability(ctx context.Context, at time.Time, partySize int) ([]models.TableAvailability, error)
	MyBookings(ctx context.Context) ([]models.Reservation, error)
	CancelMyBooking(ctx context.Context, bookingID string) error
}

type customerService struct {
	gw   CustomerGateway
	auth AuthService
}

func NewCustomerService(gw CustomerGateway, auth AuthService) CustomerService {
	return &customerService{gw: gw, auth: auth}
}

func (s *customerService) customer() (*models.AuthUser, error) {
	user := s.auth.Current()
	if user == nil || user.Kind != models.PrincipalCustomer {
		return nil, fmt.Errorf("%w: a signed-in customer is required", ErrInvalidState)
	}
	return user, nil
}

// Availability lists tables free at the given time. It works without a session;
// a signed-in customer's id is passed along so the backend can apply their history.
func (s *customerService) Availability(ctx context.Context, at time.Time, partySize int) ([]models.TableAvailability, error) {
	if at.IsZero() {
		return nil, fmt.Errorf("%w: time is required", ErrValidation)
	}
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
	}
	var customerID *string
	if user := s.auth.Current(); user != nil && user.Kind == models.PrincipalCustomer {
		customerID = user.CustomerID
	}
	return s.gw.ListTablesByTime(ctx, at, partySize, customerID)
}

func (s *customerService) MyBookings(ctx context.Context) ([]models.Reservation, error) {
	user, err := s.customer()
	if err != nil {
		return nil, err
	}
	return s.gw.ListMyBookings(ctx, user.Token)
}

func (s *customerService) CancelMyBooking(ctx context.Context, bookingID string) error {
	user, err := s.customer()
	if err != nil {
		return err
	}
	if bookingID == "" {
		return fmt.Errorf("%w: booking id is required", ErrValidation)
	}
	return s.gw.CancelBooking(ctx, bookingID, user.Token)
}
