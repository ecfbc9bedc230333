package models

import "time"

// Theme of the UI
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// UISettings is the terminal's persisted display configuration
type UISettings struct {
	Theme        Theme     `json:"theme"`
	PrimaryColor string    `json:"primary_color"`
	FontSize     int       `json:"font_size"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultUISettings is used until the first save.
func DefaultUISettings() UISettings {
	return UISettings{Theme: ThemeAuto, PrimaryColor: "#1677ff", FontSize: 14}
}

// UpdateUISettingsPayload allows partial updates.
type UpdateUISettingsPayload struct {
	Theme        *string `json:"theme"`
	PrimaryColor *string `json:"primary_color"`
	FontSize     *int    `json:"font_size"`
}
