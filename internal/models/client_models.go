package models

// Customer is the backend's view of a guest account
type Customer struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// CheckUserResult tells the UI whether to continue with login-OTP or register-OTP.
type CheckUserResult struct {
	Exists bool `json:"exists"`
}
