package gateway

import (
	"context"
	"net/http"

	"resto_pos_terminal/internal/models"
)

// CustomerSession is returned by OTP login and registration.
type CustomerSession struct {
	Token    string          `json:"token"`
	Customer models.Customer `json:"customer"`
}

// StaffSession is returned by staff login.
type StaffSession struct {
	Token    string          `json:"token"`
	Employee models.Employee `json:"employee"`
}

// CheckUser reports whether an account exists for an email or phone number.
func (c *Client) CheckUser(ctx context.Context, identifier string) (bool, error) {
	var result models.CheckUserResult
	body := map[string]string{"identifier": identifier}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/check-user", body: body}, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

// Login exchanges an OTP for a customer session.
func (c *Client) Login(ctx context.Context, identifier, otp string) (*CustomerSession, error) {
	var session CustomerSession
	body := map[string]string{"identifier": identifier, "otp": otp}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register creates a customer account and returns its session.
func (c *Client) Register(ctx context.Context, identifier, name, otp string) (*CustomerSession, error) {
	var session CustomerSession
	body := map[string]string{"identifier": identifier, "name": name, "otp": otp}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: body}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AdminLogin authenticates staff with username and password.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*StaffSession, error) {
	var session StaffSession
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/admin/login", body: body}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
