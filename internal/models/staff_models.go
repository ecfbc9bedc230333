package models

// Employee is the backend's view of a staff account
type Employee struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	RoleCode string `json:"role_code"`
}
