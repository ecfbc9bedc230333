package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/internal/middleware"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
	feedback    services.FeedbackService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService, feedback services.FeedbackService) *AuthHandler {
	return &AuthHandler{authService: as, feedback: feedback}
}

// CheckUser tells the login screen whether the identifier already has an account.
func (h *AuthHandler) CheckUser(c *gin.Context) {
	var req models.CheckUserPayload
	if !bindJSON(c, &req) {
		return
	}
	exists, err := h.authService.CheckUser(c.Request.Context(), req.Identifier)
	if err != nil {
		respondError(c, h.feedback, "Check user", err)
		return
	}
	c.JSON(http.StatusOK, models.CheckUserResult{Exists: exists})
}

// Login signs a guest in with a one-time password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.OTPLoginPayload
	if !bindJSON(c, &req) {
		return
	}
	h.respondSession(c, "Login", http.StatusOK)(h.authService.Login(c.Request.Context(), req.Identifier, req.OTP))
}

// Register creates a guest account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.OTPRegisterPayload
	if !bindJSON(c, &req) {
		return
	}
	h.respondSession(c, "Register", http.StatusCreated)(h.authService.Register(c.Request.Context(), req.Identifier, req.Name, req.OTP))
}

// AdminLogin signs staff in with username and password.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.Credentials
	if !bindJSON(c, &req) {
		return
	}
	h.respondSession(c, "Staff login", http.StatusOK)(h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password))
}

// Restore trades the caller's terminal token, possibly expired, for a fresh one
// of the same session.
func (h *AuthHandler) Restore(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Bearer token of the session required.", ""))
		return
	}
	session, err := h.authService.Resume(c.Request.Context(), token)
	if err != nil {
		respondError(c, nil, "Restore session", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetCurrentUser returns the signed-in principal.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user := h.authService.Current()
	if user == nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout clears the terminal session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		respondError(c, h.feedback, "Logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

func (h *AuthHandler) respondSession(c *gin.Context, action string, status int) func(*models.SessionResponse, error) {
	return func(session *models.SessionResponse, err error) {
		if err != nil {
			respondError(c, h.feedback, action, err)
			return
		}
		c.JSON(status, session)
	}
}
