package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
)

// SettingHandler exposes the terminal's UI preferences.
type SettingHandler struct {
	settings services.SettingService
	feedback services.FeedbackService
}

func NewSettingHandler(settings services.SettingService, feedback services.FeedbackService) *SettingHandler {
	return &SettingHandler{settings: settings, feedback: feedback}
}

// GetSettings returns the stored settings or the defaults.
func (h *SettingHandler) GetSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, nil, "Load settings", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSettings applies a partial update.
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var payload models.UpdateUISettingsPayload
	if !bindJSON(c, &payload) {
		return
	}
	s, err := h.settings.Update(c.Request.Context(), payload)
	if err != nil {
		respondError(c, h.feedback, "Save settings", err)
		return
	}
	notifySuccess(h.feedback, "Settings saved", "")
	c.JSON(http.StatusOK, s)
}
