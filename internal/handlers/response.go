package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

// apiErrorFor maps service and gateway errors to the HTTP error the browser sees.
func apiErrorFor(err error) *utils.APIError {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid input.", err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Session is not valid.", err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error())
	case errors.Is(err, services.ErrOperationInFlight):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeInFlight, "Another request for this item is still running.", err.Error())
	case errors.Is(err, services.ErrInvalidState):
		return utils.NewAPIError(http.StatusConflict, utils.ErrCodeInvalidState, "Operation not allowed in the current state.", err.Error())
	case errors.Is(err, services.ErrInvariantViolation):
		return utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeInvariantViolation, "Change would leave tables and orders inconsistent.", err.Error())
	case errors.As(err, &gwErr):
		switch gwErr.StatusCode {
		case http.StatusUnauthorized:
			return utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Backend rejected the credentials.", gwErr.Message)
		case http.StatusNotFound:
			return utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Backend resource not found.", gwErr.Message)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Backend rejected the request.", gwErr.Message)
		}
		return utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeBadGateway, "Backend request failed.", gwErr.Message)
	case errors.Is(err, gateway.ErrNetwork), errors.Is(err, gateway.ErrGateway):
		return utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeBadGateway, "Backend unreachable.", err.Error())
	default:
		return utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal error.", "")
	}
}

// respondError logs err, raises an error toast for the views and writes the response.
func respondError(c *gin.Context, fb services.FeedbackService, action string, err error) {
	apiErr := apiErrorFor(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		utils.LogError(err, action+" failed")
	} else {
		utils.LogWarn(action+" rejected", map[string]interface{}{"error": err.Error()})
	}
	if fb != nil {
		fb.Notify(models.NotifyInput{Tone: models.ToneError, Title: action + " failed", Description: apiErr.Message})
	}
	utils.RespondWithError(c, apiErr)
}

func notifySuccess(fb services.FeedbackService, title, description string) {
	if fb != nil {
		fb.Notify(models.NotifyInput{Tone: models.ToneSuccess, Title: title, Description: description})
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return false
	}
	return true
}
