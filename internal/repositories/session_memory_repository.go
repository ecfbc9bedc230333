package repositories

import (
	"context"
	"sync"

	"resto_pos_terminal/internal/models"
)

type memorySessionRepository struct {
	mu         sync.RWMutex
	principals map[string]models.AuthUser
	settings   map[string]models.UISettings
}

// NewMemorySessionRepository keeps sessions in process memory; they do not survive a restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		principals: map[string]models.AuthUser{},
		settings:   map[string]models.UISettings{},
	}
}

func (r *memorySessionRepository) SavePrincipal(_ context.Context, terminalID string, user *models.AuthUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.principals[terminalID] = *user
	return nil
}

func (r *memorySessionRepository) LoadPrincipal(_ context.Context, terminalID string) (*models.AuthUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.principals[terminalID]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memorySessionRepository) DeletePrincipal(_ context.Context, terminalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.principals, terminalID)
	return nil
}

func (r *memorySessionRepository) LoadSettings(_ context.Context, terminalID string) (*models.UISettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[terminalID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memorySessionRepository) SaveSettings(_ context.Context, terminalID string, settings *models.UISettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[terminalID] = *settings
	return nil
}
