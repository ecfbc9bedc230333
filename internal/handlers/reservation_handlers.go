package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/middleware"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

// ReservationHandler holds the reservation and guest-booking endpoints.
type ReservationHandler struct {
	state     services.StateService
	customers services.CustomerService
	feedback  services.FeedbackService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(state services.StateService, customers services.CustomerService, feedback services.FeedbackService) *ReservationHandler {
	return &ReservationHandler{state: state, customers: customers, feedback: feedback}
}

// ListReservations returns mirrored reservations, optionally filtered by ?status=.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	all := h.state.Reservations()
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusOK, all)
		return
	}
	if !models.IsValidReservationStatus(status) {
		utils.RespondValidationFailed(c, "unknown reservation status "+status)
		return
	}
	filtered := make([]models.Reservation, 0, len(all))
	for _, r := range all {
		if string(r.Status) == status {
			filtered = append(filtered, r)
		}
	}
	c.JSON(http.StatusOK, filtered)
}

// CreateReservation books tables. Guests signed in through the app always book as themselves.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var in models.CreateReservationInput
	if !bindJSON(c, &in) {
		return
	}
	if c.GetString(middleware.ContextRole) == models.RoleCustomer {
		principal := c.GetString(middleware.ContextPrincipal)
		in.CustomerID = &principal
		in.Source = string(models.ReservationSourceApp)
	} else {
		in.CustomerID = nil
	}

	res, err := h.state.CreateReservation(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.feedback, "Create reservation", err)
		return
	}
	notifySuccess(h.feedback, "Reservation created", res.Reservation.CustomerName)
	c.JSON(http.StatusCreated, res)
}

// ConfirmArrival seats the party of a booked reservation.
func (h *ReservationHandler) ConfirmArrival(c *gin.Context) {
	h.transition(c, "Check in", h.state.ConfirmArrival)
}

// CancelReservation cancels a booked reservation.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	h.transition(c, "Cancel reservation", h.state.CancelReservation)
}

// MarkNoShow records that the party never arrived.
func (h *ReservationHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, "Mark no-show", h.state.MarkNoShow)
}

func (h *ReservationHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, id string) (*models.Reservation, error)) {
	r, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.feedback, action, err)
		return
	}
	notifySuccess(h.feedback, action, r.CustomerName)
	c.JSON(http.StatusOK, r)
}

type paymentReturnRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentReturn resumes a reservation after the deposit payment page redirects back.
func (h *ReservationHandler) PaymentReturn(c *gin.Context) {
	var req paymentReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.state.ResumeBookingPayment(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.feedback, "Deposit payment", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Availability lists tables free for ?time=RFC3339&party_size=N.
func (h *ReservationHandler) Availability(c *gin.Context) {
	at, err := time.Parse(time.RFC3339, c.Query("time"))
	if err != nil {
		utils.RespondValidationFailed(c, "time must be RFC3339")
		return
	}
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil || partySize <= 0 {
		utils.RespondValidationFailed(c, "party_size must be a positive integer")
		return
	}
	tables, err := h.customers.Availability(c.Request.Context(), at, partySize)
	if err != nil {
		respondError(c, h.feedback, "Availability", err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// MyBookings lists the signed-in guest's own bookings.
func (h *ReservationHandler) MyBookings(c *gin.Context) {
	bookings, err := h.customers.MyBookings(c.Request.Context())
	if err != nil {
		respondError(c, h.feedback, "My bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelMyBooking lets a guest cancel one of their own bookings.
func (h *ReservationHandler) CancelMyBooking(c *gin.Context) {
	if err := h.customers.CancelMyBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.feedback, "Cancel booking", err)
		return
	}
	c.Status(http.StatusNoContent)
}
