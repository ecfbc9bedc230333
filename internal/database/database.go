package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"resto_pos_terminal/pkg/utils"
)

// Config holds the Postgres connection settings.
type Config struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SchemaPath string // optional extra SQL applied after the built-in schema
}

const terminalSchema = `
CREATE TABLE IF NOT EXISTS terminal_sessions (
    terminal_id TEXT PRIMARY KEY,
    principal   JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS terminal_settings (
    terminal_id   TEXT PRIMARY KEY,
    theme         TEXT NOT NULL CHECK (theme IN ('light', 'dark', 'auto')),
    primary_color TEXT NOT NULL,
    font_size     INTEGER NOT NULL CHECK (font_size BETWEEN 10 AND 32),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// OpenDB connects to Postgres and makes sure the terminal tables exist.
func OpenDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.Host, "db": cfg.Name})

	if err := applySchema(ctx, db, cfg.SchemaPath); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema creates the terminal tables, then runs the optional schema file.
func applySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	if _, err := db.ExecContext(ctx, terminalSchema); err != nil {
		return fmt.Errorf("could not create terminal tables: %w", err)
	}
	if schemaPath == "" {
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	return nil
}
