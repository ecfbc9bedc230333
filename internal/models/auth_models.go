package models

import "time"

// PrincipalKind discriminates the authenticated user union
type PrincipalKind string

const (
	PrincipalCustomer PrincipalKind = "customer"
	PrincipalStaff    PrincipalKind = "staff"
)

// AuthUser is the authenticated principal of the terminal session.
// Customer principals carry CustomerID; staff principals carry EmployeeID and RoleCode.
type AuthUser struct {
	Kind        PrincipalKind `json:"kind"`
	Token       string        `json:"token"`
	DisplayName string        `json:"display_name"`
	CustomerID  *string       `json:"customer_id,omitempty"`
	EmployeeID  *string       `json:"employee_id,omitempty"`
	RoleCode    *string       `json:"role_code,omitempty"`
	IsAdmin     bool          `json:"is_admin"`
	LoggedInAt  time.Time     `json:"logged_in_at"`
	// SessionID is the jti of the terminal tokens issued for this sign-in.
	SessionID string `json:"session_id,omitempty"`
}

// Role is the access role carried in terminal access tokens.
func (u *AuthUser) Role() string {
	switch {
	case u.Kind == PrincipalCustomer:
		return RoleCustomer
	case u.IsAdmin:
		return RoleAdmin
	default:
		return RoleStaff
	}
}

// Access token roles
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// CheckUserPayload is phase one of the OTP flow
type CheckUserPayload struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
}

// OTPLoginPayload is phase two of the OTP flow for an existing account
type OTPLoginPayload struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required"`
}

// OTPRegisterPayload is phase two of the OTP flow for a new account
type OTPRegisterPayload struct {
	Identifier string `json:"identifier" binding:"required"`
	Name       string `json:"name" binding:"required"`
	OTP        string `json:"otp" binding:"required"`
}

// Credentials for staff login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse is returned to the browser after a successful login.
type SessionResponse struct {
	User        *AuthUser `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
