package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resto_pos_terminal/internal/models"
)

// SessionRepository persists what a terminal must remember across restarts:
// the signed-in principal and the UI settings. Records are keyed by terminal id.
type SessionRepository interface {
	SavePrincipal(ctx context.Context, terminalID string, user *models.AuthUser) error
	LoadPrincipal(ctx context.Context, terminalID string) (*models.AuthUser, error)
	DeletePrincipal(ctx context.Context, terminalID string) error

	LoadSettings(ctx context.Context, terminalID string) (*models.UISettings, error)
	SaveSettings(ctx context.Context, terminalID string, settings *models.UISettings) error
}

// postgresSessionRepository stores sessions in the terminal_sessions and
// terminal_settings tables (see database.applySchema).
type postgresSessionRepository struct {
	db SQLExecutor
}

// NewPostgresSessionRepository creates a SessionRepository backed by Postgres.
func NewPostgresSessionRepository(db SQLExecutor) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) SavePrincipal(ctx context.Context, terminalID string, user *models.AuthUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding principal: %w", err)
	}
	query := `INSERT INTO terminal_sessions (terminal_id, principal, updated_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (terminal_id) DO UPDATE SET principal = EXCLUDED.principal, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, terminalID, payload, time.Now()); err != nil {
		return fmt.Errorf("%w: saving principal for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}

func (r *postgresSessionRepository) LoadPrincipal(ctx context.Context, terminalID string) (*models.AuthUser, error) {
	query := `SELECT principal FROM terminal_sessions WHERE terminal_id = $1`
	var payload []byte
	if err := r.db.QueryRowContext(ctx, query, terminalID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading principal for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	var user models.AuthUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("%w: decoding principal: %v", ErrDatabaseError, err)
	}
	return &user, nil
}

func (r *postgresSessionRepository) DeletePrincipal(ctx context.Context, terminalID string) error {
	query := `DELETE FROM terminal_sessions WHERE terminal_id = $1`
	if _, err := r.db.ExecContext(ctx, query, terminalID); err != nil {
		return fmt.Errorf("%w: deleting principal for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}

func (r *postgresSessionRepository) LoadSettings(ctx context.Context, terminalID string) (*models.UISettings, error) {
	query := `SELECT theme, primary_color, font_size, updated_at FROM terminal_settings WHERE terminal_id = $1`
	settings, err := scanSettings(r.db.QueryRowContext(ctx, query, terminalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading settings for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return settings, nil
}

func (r *postgresSessionRepository) SaveSettings(ctx context.Context, terminalID string, settings *models.UISettings) error {
	query := `INSERT INTO terminal_settings (terminal_id, theme, primary_color, font_size, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (terminal_id) DO UPDATE SET
	              theme = EXCLUDED.theme,
	              primary_color = EXCLUDED.primary_color,
	              font_size = EXCLUDED.font_size,
	              updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, terminalID, string(settings.Theme), settings.PrimaryColor, settings.FontSize, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: saving settings for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}

func scanSettings(row scanner) (*models.UISettings, error) {
	var s models.UISettings
	var theme string
	if err := row.Scan(&theme, &s.PrimaryColor, &s.FontSize, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Theme = models.Theme(theme)
	return &s, nil
}
