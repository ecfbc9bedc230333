package models

import "time"

// Tone of a notification
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// NotifyInput describes a toast. A zero Duration means the default;
// a negative one keeps the toast until dismissed.
type NotifyInput struct {
	ID          string        `json:"id"`
	Tone        Tone          `json:"tone"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration"`
}

// Notification is a queued toast
type Notification struct {
	ID          string     `json:"id"`
	Tone        Tone       `json:"tone"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ConfirmOptions is the prompt of a confirmation dialog
type ConfirmOptions struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ConfirmText string `json:"confirm_text"`
	CancelText  string `json:"cancel_text"`
	Destructive bool   `json:"destructive"`
}

// Dialog is the active confirmation dialog shown to the user.
type Dialog struct {
	ID      string         `json:"id"`
	Options ConfirmOptions `json:"options"`
	Pending int            `json:"pending"` // dialogs queued behind this one
}
