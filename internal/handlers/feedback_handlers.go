package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
)

// FeedbackHandler exposes toasts and confirmation dialogs to the views.
type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.feedback.Notifications())
}

type notifyRequest struct {
	ID          string      `json:"id"`
	Tone        models.Tone `json:"tone"`
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	DurationMs  int64       `json:"duration_ms"` // 0 default, negative sticky
}

func (h *FeedbackHandler) Notify(c *gin.Context) {
	var req notifyRequest
	if !bindJSON(c, &req) {
		return
	}
	id := h.feedback.Notify(models.NotifyInput{
		ID:          req.ID,
		Tone:        req.Tone,
		Title:       req.Title,
		Description: req.Description,
		Duration:    time.Duration(req.DurationMs) * time.Millisecond,
	})
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Dismiss is idempotent; unknown ids are ignored.
func (h *FeedbackHandler) Dismiss(c *gin.Context) {
	h.feedback.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Confirm blocks until the dialog is resolved or the caller goes away.
func (h *FeedbackHandler) Confirm(c *gin.Context) {
	var opts models.ConfirmOptions
	if !bindJSON(c, &opts) {
		return
	}
	accepted, err := h.feedback.Confirm(c.Request.Context(), opts)
	if err != nil {
		// client disconnected; nobody is left to answer
		c.Status(499)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

// ActiveDialog returns the dialog at the head of the queue, or 204 when none is open.
func (h *FeedbackHandler) ActiveDialog(c *gin.Context) {
	d := h.feedback.ActiveDialog()
	if d == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, d)
}

type resolveDialogRequest struct {
	Accepted bool `json:"accepted"`
}

func (h *FeedbackHandler) ResolveDialog(c *gin.Context) {
	var req resolveDialogRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.feedback.Resolve(c.Param("id"), req.Accepted); err != nil {
		respondError(c, nil, "Resolve dialog", err)
		return
	}
	c.Status(http.StatusNoContent)
}
