package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TableStatus defines the type for dining table statuses
type TableStatus string

const (
	TableStatusAvailable      TableStatus = "available"
	TableStatusOccupied       TableStatus = "occupied"
	TableStatusReserved       TableStatus = "reserved"
	TableStatusCleaningNeeded TableStatus = "cleaning_needed"
)

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusAvailable,
		TableStatusOccupied,
		TableStatusReserved,
		TableStatusCleaningNeeded:
		return true
	default:
		return false
	}
}

// Table represents a physical dining table in the restaurant
type Table struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
	OrderID  *string     `json:"order_id,omitempty"` // Set iff Status is occupied
}

// ReservationStatus defines the type for reservation statuses
type ReservationStatus string

const (
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusNoShow    ReservationStatus = "no_show"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusSeated || s == ReservationStatusCancelled || s == ReservationStatusNoShow
}

// IsValidReservationStatus checks if the provided status string is a valid ReservationStatus.
func IsValidReservationStatus(status string) bool {
	switch ReservationStatus(status) {
	case ReservationStatusBooked,
		ReservationStatusSeated,
		ReservationStatusCancelled,
		ReservationStatusNoShow:
		return true
	default:
		return false
	}
}

// ReservationSource tells where a booking came from.
type ReservationSource string

const (
	ReservationSourceApp      ReservationSource = "app"
	ReservationSourcePhone    ReservationSource = "phone"
	ReservationSourceInPerson ReservationSource = "in_person"
)

// ParseReservationSource accepts an empty value as in_person (walk-up booking at the desk).
func ParseReservationSource(s string) (ReservationSource, bool) {
	switch ReservationSource(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ReservationSourceInPerson, true
	case ReservationSourceApp:
		return ReservationSourceApp, true
	case ReservationSourcePhone:
		return ReservationSourcePhone, true
	case ReservationSourceInPerson:
		return ReservationSourceInPerson, true
	default:
		return "", false
	}
}

// Reservation represents a customer booking
type Reservation struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Phone        *string           `json:"phone,omitempty"`
	PartySize    int               `json:"party_size"`
	Time         time.Time         `json:"time"`
	Status       ReservationStatus `json:"status"`
	TableIDs     []string          `json:"table_ids,omitempty"`
	Source       ReservationSource `json:"source"`
	Notes        *string           `json:"notes,omitempty"`
	// Deposit bookkeeping for promotions/policies that require prepayment.
	RequirePayment bool             `json:"require_payment"`
	DepositAmount  *decimal.Decimal `json:"deposit_amount,omitempty"`
	DepositPaid    bool             `json:"deposit_paid"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CreateReservationInput is the payload accepted by the reservation flow.
type CreateReservationInput struct {
	CustomerName string    `json:"customer_name"`
	Phone        *string   `json:"phone"`
	PartySize    int       `json:"party_size"`
	Time         time.Time `json:"time"`
	TableID      *string   `json:"table_id"`
	TableIDs     []string  `json:"table_ids"`
	Source       string    `json:"source"`
	Notes        *string   `json:"notes"`
	CustomerID   *string   `json:"customer_id,omitempty"`
}

// AssignedTables merges TableID and TableIDs, dropping blanks and duplicates.
func (in CreateReservationInput) AssignedTables() []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if in.TableID != nil {
		add(*in.TableID)
	}
	for _, id := range in.TableIDs {
		add(id)
	}
	return ids
}

// TableAvailability is one row of the booking availability lookup.
type TableAvailability struct {
	Table     Table `json:"table"`
	Available bool  `json:"available"`
}
