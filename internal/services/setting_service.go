package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/repositories"
	"resto_pos_terminal/pkg/utils"
)

// Font size bounds accepted by the UI.
const (
	MinFontSize = 10
	MaxFontSize = 32
)

// SettingService manages the terminal's persisted UI settings.
type SettingService interface {
	Get(ctx context.Context) (*models.UISettings, error)
	Update(ctx context.Context, payload models.UpdateUISettingsPayload) (*models.UISettings, error)
}

type settingService struct {
	repo       repositories.SessionRepository
	terminalID string
}

func NewSettingService(repo repositories.SessionRepository, terminalID string) SettingService {
	return &settingService{repo: repo, terminalID: terminalID}
}

// Get returns the saved settings, or the defaults before the first save.
func (s *settingService) Get(ctx context.Context) (*models.UISettings, error) {
	settings, err := s.repo.LoadSettings(ctx, s.terminalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			d := models.DefaultUISettings()
			return &d, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *settingService) Update(ctx context.Context, payload models.UpdateUISettingsPayload) (*models.UISettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if payload.Theme != nil {
		theme := models.Theme(strings.ToLower(strings.TrimSpace(*payload.Theme)))
		switch theme {
		case models.ThemeLight, models.ThemeDark, models.ThemeAuto:
			settings.Theme = theme
		default:
			return nil, fmt.Errorf("%w: theme must be light, dark or auto", ErrValidation)
		}
	}
	if payload.PrimaryColor != nil {
		color := strings.TrimSpace(*payload.PrimaryColor)
		if !utils.IsValidHexColor(color) {
			return nil, fmt.Errorf("%w: primary color must look like #RRGGBB", ErrValidation)
		}
		settings.PrimaryColor = strings.ToLower(color)
	}
	if payload.FontSize != nil {
		if *payload.FontSize < MinFontSize || *payload.FontSize > MaxFontSize {
			return nil, fmt.Errorf("%w: font size must be between %d and %d", ErrValidation, MinFontSize, MaxFontSize)
		}
		settings.FontSize = *payload.FontSize
	}
	settings.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := s.repo.SaveSettings(ctx, s.terminalID, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
