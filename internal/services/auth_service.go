package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/repositories"
	"resto_pos_terminal/pkg/utils"
)

// DefaultAdminRoleCode is the backend role code that marks an administrator.
const DefaultAdminRoleCode = "1"

// AuthGateway is the part of the backend gateway used for sign-in.
type AuthGateway interface {
	CheckUser(ctx context.Context, identifier string) (bool, error)
	Login(ctx context.Context, identifier, otp string) (*gateway.CustomerSession, error)
	Register(ctx context.Context, identifier, name, otp string) (*gateway.CustomerSession, error)
	AdminLogin(ctx context.Context, username, password string) (*gateway.StaffSession, error)
	SetToken(token string)
	ClearToken()
}

// AuthService holds the terminal's single signed-in principal.
type AuthService interface {
	CheckUser(ctx context.Context, identifier string) (bool, error)
	Login(ctx context.Context, identifier, otp string) (*models.SessionResponse, error)
	Register(ctx context.Context, identifier, name, otp string) (*models.SessionResponse, error)
	AdminLogin(ctx context.Context, username, password string) (*models.SessionResponse, error)
	Logout(ctx context.Context) error
	Current() *models.AuthUser
	Restore(ctx context.Context) (*models.SessionResponse, error)
	Resume(ctx context.Context, presentedToken string) (*models.SessionResponse, error)
	SessionActive(sessionID string) bool
}

type authService struct {
	gw            AuthGateway
	repo          repositories.SessionRepository
	terminalID    string
	adminRoleCode string
	now           func() time.Time

	mu      sync.Mutex
	current *models.AuthUser
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(gw AuthGateway, repo repositories.SessionRepository, terminalID, adminRoleCode string) AuthService {
	if adminRoleCode == "" {
		adminRoleCode = DefaultAdminRoleCode
	}
	return &authService{
		gw:            gw,
		repo:          repo,
		terminalID:    terminalID,
		adminRoleCode: adminRoleCode,
		now:           time.Now,
	}
}

// CheckUser is phase one of the OTP flow. It changes no local state.
func (s *authService) CheckUser(ctx context.Context, identifier string) (bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return false, fmt.Errorf("%w: email or phone is required", ErrValidation)
	}
	return s.gw.CheckUser(ctx, identifier)
}

func (s *authService) Login(ctx context.Context, identifier, otp string) (*models.SessionResponse, error) {
	if utils.IsEmpty(identifier) || utils.IsEmpty(otp) {
		return nil, fmt.Errorf("%w: identifier and otp are required", ErrValidation)
	}
	session, err := s.gw.Login(ctx, strings.TrimSpace(identifier), strings.TrimSpace(otp))
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, s.customerUser(session))
}

func (s *authService) Register(ctx context.Context, identifier, name, otp string) (*models.SessionResponse, error) {
	if utils.IsEmpty(identifier) || utils.IsEmpty(name) || utils.IsEmpty(otp) {
		return nil, fmt.Errorf("%w: identifier, name and otp are required", ErrValidation)
	}
	session, err := s.gw.Register(ctx, strings.TrimSpace(identifier), strings.TrimSpace(name), strings.TrimSpace(otp))
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, s.customerUser(session))
}

// AdminLogin signs staff in; the role code decides between admin and general staff.
func (s *authService) AdminLogin(ctx context.Context, username, password string) (*models.SessionResponse, error) {
	if utils.IsEmpty(username) || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	session, err := s.gw.AdminLogin(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, err
	}
	employeeID := session.Employee.ID
	roleCode := session.Employee.RoleCode
	user := &models.AuthUser{
		Kind:        models.PrincipalStaff,
		Token:       session.Token,
		DisplayName: session.Employee.FullName,
		EmployeeID:  &employeeID,
		RoleCode:    &roleCode,
		IsAdmin:     roleCode == s.adminRoleCode,
		LoggedInAt:  s.now(),
	}
	return s.signIn(ctx, user)
}

func (s *authService) customerUser(session *gateway.CustomerSession) *models.AuthUser {
	customerID := session.Customer.ID
	return &models.AuthUser{
		Kind:        models.PrincipalCustomer,
		Token:       session.Token,
		DisplayName: session.Customer.FullName,
		CustomerID:  &customerID,
		LoggedInAt:  s.now(),
	}
}

// signIn persists the principal first; the previous session stays in place if that fails.
// Each sign-in gets a fresh session id, which retires tokens of the previous principal.
func (s *authService) signIn(ctx context.Context, user *models.AuthUser) (*models.SessionResponse, error) {
	user.SessionID = uuid.NewString()
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SavePrincipal(ctx, s.terminalID, user); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	s.gw.SetToken(user.Token)

	utils.LogInfo("Principal signed in", map[string]interface{}{
		"kind": user.Kind, "role": user.Role(), "terminal_id": s.terminalID,
	})
	return resp, nil
}

func (s *authService) issue(user *models.AuthUser) (*models.SessionResponse, error) {
	principal := ""
	switch {
	case user.CustomerID != nil:
		principal = *user.CustomerID
	case user.EmployeeID != nil:
		principal = *user.EmployeeID
	}
	token, expiresAt, err := utils.GenerateAccessToken(principal, user.DisplayName, user.Role(), user.SessionID)
	if err != nil {
		return nil, err
	}
	u := *user
	return &models.SessionResponse{User: &u, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Logout clears the principal, its durable record and the cached backend token.
// It is a no-op when nobody is signed in.
func (s *authService) Logout(ctx context.Context) error {
	s.mu.Lock()
	user := s.current
	s.current = nil
	s.mu.Unlock()
	s.gw.ClearToken()

	if user == nil {
		return nil
	}
	if err := s.repo.DeletePrincipal(ctx, s.terminalID); err != nil {
		utils.LogError(err, "Failed to delete persisted session", map[string]interface{}{"terminal_id": s.terminalID})
		return fmt.Errorf("removing persisted session: %w", err)
	}
	utils.LogInfo("Principal signed out", map[string]interface{}{"kind": user.Kind, "terminal_id": s.terminalID})
	return nil
}

func (s *authService) Current() *models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Restore reloads the persisted principal after a restart. A backend token whose
// exp claim has passed is discarded. It returns nil when there is no session.
func (s *authService) Restore(ctx context.Context) (*models.SessionResponse, error) {
	user, err := s.repo.LoadPrincipal(ctx, s.terminalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading persisted session: %w", err)
	}

	exp, err := utils.TokenExpiry(user.Token)
	if err == nil && exp != nil && !exp.After(s.now()) {
		utils.LogWarn("Persisted session token expired, discarding", map[string]interface{}{"terminal_id": s.terminalID})
		if err := s.repo.DeletePrincipal(ctx, s.terminalID); err != nil {
			utils.LogError(err, "Failed to delete expired session")
		}
		return nil, nil
	}

	if user.SessionID == "" {
		user.SessionID = uuid.NewString()
		if err := s.repo.SavePrincipal(ctx, s.terminalID, user); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	s.gw.SetToken(user.Token)
	return resp, nil
}

// Resume trades a token of the current session, expired or not, for a new one.
// The session id rotates, so the presented token stops working.
func (s *authService) Resume(ctx context.Context, presentedToken string) (*models.SessionResponse, error) {
	claims, err := utils.ValidateTokenSignature(presentedToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.SessionID == "" || s.current.SessionID != claims.ID {
		return nil, fmt.Errorf("%w: token does not belong to the active session", ErrUnauthorized)
	}
	exp, err := utils.TokenExpiry(s.current.Token)
	if err == nil && exp != nil && !exp.After(s.now()) {
		return nil, fmt.Errorf("%w: backend session expired, sign in again", ErrUnauthorized)
	}

	next := *s.current
	next.SessionID = uuid.NewString()
	resp, err := s.issue(&next)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SavePrincipal(ctx, s.terminalID, &next); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	s.current = &next
	utils.LogInfo("Session resumed", map[string]interface{}{"kind": next.Kind, "terminal_id": s.terminalID})
	return resp, nil
}

// SessionActive reports whether sessionID belongs to the signed-in principal.
func (s *authService) SessionActive(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sessionID != "" && s.current != nil && s.current.SessionID == sessionID
}
