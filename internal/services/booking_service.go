package services

import (
	"context"
	"fmt"
	"strings"

	"resto_pos_terminal/internal/events"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

// ReservationResult is a created reservation plus the deposit redirect, if the
// backend requires one before the booking is final.
type ReservationResult struct {
	Reservation models.Reservation `json:"reservation"`
	PaymentURL  *string            `json:"payment_url,omitempty"`
}

// CreateReservation validates the input and registers a Booked reservation.
// Assigned tables are only held on paper: their status changes at check-in.
func (s *stateService) CreateReservation(ctx context.Context, in models.CreateReservationInput) (*ReservationResult, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if in.PartySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
	}
	if in.Time.IsZero() {
		return nil, fmt.Errorf("%w: reservation time is required", ErrValidation)
	}
	source, ok := models.ParseReservationSource(in.Source)
	if !ok {
		return nil, fmt.Errorf("%w: unknown reservation source %q", ErrValidation, in.Source)
	}
	tableIDs := in.AssignedTables()

	s.mu.Lock()
	for _, id := range tableIDs {
		if _, exists := s.tables[id]; !exists {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: table %s", ErrNotFound, id)
		}
	}
	existing := make([]string, 0, len(s.reservations))
	for id := range s.reservations {
		existing = append(existing, id)
	}
	id := s.nextIDLocked(nsReservation, existing)
	s.mu.Unlock()
	defer s.releaseID(nsReservation, id)

	now := s.now()
	r := models.Reservation{
		ID:           id,
		CustomerName: name,
		Phone:        utils.NilIfBlank(in.Phone),
		PartySize:    in.PartySize,
		Time:         in.Time,
		Status:       models.ReservationStatusBooked,
		TableIDs:     tableIDs,
		Source:       source,
		Notes:        utils.NilIfBlank(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.backend.CreateBooking(ctx, &r, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("creating reservation: %w", err)
	}
	var paymentURL *string
	if result != nil {
		if result.ID != "" {
			r.ID = result.ID
		}
		r.RequirePayment = result.RequirePayment
		r.DepositAmount = result.DepositAmount
		paymentURL = result.PaymentURL
	}

	s.mu.Lock()
	stored := r
	s.reservations[stored.ID] = &stored
	s.mu.Unlock()

	utils.LogInfo("Reservation created", map[string]interface{}{
		"reservation_id": r.ID, "party_size": r.PartySize, "source": r.Source, "require_payment": r.RequirePayment,
	})
	s.publishReservation(ctx, events.EventReservationCreated, r)
	return &ReservationResult{Reservation: cloneReservation(&r), PaymentURL: paymentURL}, nil
}

// ConfirmArrival checks a Booked reservation in. Every assigned table becomes
// Occupied with a new empty order of its own.
func (s *stateService) ConfirmArrival(ctx context.Context, reservationID string) (*models.Reservation, error) {
	s.mu.Lock()
	r, err := s.bookedReservationLocked(reservationID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	keys := []string{reservationKey(reservationID)}
	for _, tableID := range r.TableIDs {
		t, ok := s.tables[tableID]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: table %s assigned to reservation %s", ErrNotFound, tableID, reservationID)
		}
		if t.Status == models.TableStatusOccupied {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: table %s is already occupied", ErrInvalidState, tableID)
		}
		keys = append(keys, tableKey(tableID))
	}
	if err := s.claimLocked(keys...); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	now := s.now()
	newOrders := make([]*models.Order, 0, len(r.TableIDs))
	prior := make(map[string]models.TableStatus, len(r.TableIDs))
	for _, tableID := range r.TableIDs {
		prior[tableID] = s.tables[tableID].Status
		existing := s.orderIDsLocked()
		for _, o := range newOrders {
			existing = append(existing, o.ID)
		}
		newOrders = append(newOrders, &models.Order{
			ID:        s.nextIDLocked(nsOrder, existing),
			TableID:   tableID,
			Items:     []models.OrderItem{},
			CreatedAt: now,
		})
	}
	s.mu.Unlock()
	defer s.release(keys...)
	defer func() {
		for _, o := range newOrders {
			s.releaseID(nsOrder, o.ID)
		}
	}()

	opened := make([]openedTable, 0, len(newOrders))
	for _, o := range newOrders {
		o.Recalculate(s.scale)
		if err := s.backend.CreateOrder(ctx, o); err != nil {
			s.rollbackOpenings(ctx, opened)
			return nil, fmt.Errorf("opening order for table %s: %w", o.TableID, err)
		}
		opened = append(opened, openedTable{orderID: o.ID, tableID: o.TableID, previous: prior[o.TableID]})
		orderID := o.ID
		if err := s.backend.UpdateTableStatus(ctx, o.TableID, models.TableStatusOccupied, &orderID); err != nil {
			s.rollbackOpenings(ctx, opened)
			return nil, fmt.Errorf("occupying table %s: %w", o.TableID, err)
		}
		opened[len(opened)-1].occupied = true
	}
	if err := s.backend.UpdateBookingStatus(ctx, reservationID, models.ReservationStatusSeated); err != nil {
		s.rollbackOpenings(ctx, opened)
		return nil, fmt.Errorf("seating reservation %s: %w", reservationID, err)
	}

	s.mu.Lock()
	changed := make([]models.Table, 0, len(newOrders))
	previous := make([]models.TableStatus, 0, len(newOrders))
	for _, o := range newOrders {
		s.orders[o.ID] = o
		t := s.tables[o.TableID]
		previous = append(previous, t.Status)
		orderID := o.ID
		t.Status = models.TableStatusOccupied
		t.OrderID = &orderID
		changed = append(changed, *t)
	}
	r.Status = models.ReservationStatusSeated
	r.UpdatedAt = now
	snapshot := cloneReservation(r)
	s.mu.Unlock()

	for i, t := range changed {
		s.publishTable(ctx, t, previous[i])
		s.publishOrder(ctx, events.EventOrderOpened, *newOrders[i])
	}
	s.publishReservation(ctx, events.EventReservationStatusChanged, snapshot)
	return &snapshot, nil
}

// CancelReservation releases the booking; tables and orders are untouched.
func (s *stateService) CancelReservation(ctx context.Context, reservationID string) (*models.Reservation, error) {
	return s.finishReservation(ctx, reservationID, models.ReservationStatusCancelled)
}

// MarkNoShow closes a booking whose guests never arrived.
func (s *stateService) MarkNoShow(ctx context.Context, reservationID string) (*models.Reservation, error) {
	return s.finishReservation(ctx, reservationID, models.ReservationStatusNoShow)
}

func (s *stateService) finishReservation(ctx context.Context, reservationID string, status models.ReservationStatus) (*models.Reservation, error) {
	s.mu.Lock()
	r, err := s.bookedReservationLocked(reservationID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	key := reservationKey(reservationID)
	if err := s.claimLocked(key); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()
	defer s.release(key)

	if err := s.backend.UpdateBookingStatus(ctx, reservationID, status); err != nil {
		return nil, fmt.Errorf("updating reservation %s to %s: %w", reservationID, status, err)
	}

	s.mu.Lock()
	r.Status = status
	r.UpdatedAt = s.now()
	snapshot := cloneReservation(r)
	s.mu.Unlock()

	s.publishReservation(ctx, events.EventReservationStatusChanged, snapshot)
	return &snapshot, nil
}

// ResumeBookingPayment is phase two of the deposit flow: the payment page redirects
// back with a status. Only a successful payment changes the reservation.
func (s *stateService) ResumeBookingPayment(ctx context.Context, reservationID, status string) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}
	if !r.RequirePayment {
		return nil, fmt.Errorf("%w: reservation %s does not require a deposit", ErrInvalidState, reservationID)
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "paid":
		if !r.DepositPaid {
			r.DepositPaid = true
			r.UpdatedAt = s.now()
			s.mutations++
			utils.LogInfo("Deposit paid", map[string]interface{}{"reservation_id": reservationID})
		}
	default:
		utils.LogWarn("Deposit payment not completed", map[string]interface{}{
			"reservation_id": reservationID, "status": status,
		})
	}
	snapshot := cloneReservation(r)
	return &snapshot, nil
}

func (s *stateService) bookedReservationLocked(reservationID string) (*models.Reservation, error) {
	r, ok := s.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}
	if r.Status != models.ReservationStatusBooked {
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, reservationID, r.Status)
	}
	return r, nil
}

func (s *stateService) publishReservation(ctx context.Context, eventType string, r models.Reservation) {
	s.publish(ctx, events.ReservationTopic, events.ReservationEvent{
		EventType:     eventType,
		ReservationID: r.ID,
		Status:        string(r.Status),
		TableIDs:      r.TableIDs,
		OccurredAt:    s.now(),
	})
}
