package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"resto_pos_terminal/internal/models"
)

// redisSessionRepository keeps the principal as a JSON string with a TTL and the
// settings as a hash.
type redisSessionRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionRepository creates a SessionRepository on Redis. A zero ttl keeps
// principals until logout.
func NewRedisSessionRepository(client *redis.Client, keyPrefix string, ttl time.Duration) SessionRepository {
	if keyPrefix == "" {
		keyPrefix = "pos:terminal"
	}
	return &redisSessionRepository{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// NewRedisClient parses url and verifies the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *redisSessionRepository) principalKey(terminalID string) string {
	return r.keyPrefix + ":" + terminalID + ":principal"
}

func (r *redisSessionRepository) settingsKey(terminalID string) string {
	return r.keyPrefix + ":" + terminalID + ":settings"
}

func (r *redisSessionRepository) SavePrincipal(ctx context.Context, terminalID string, user *models.AuthUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding principal: %w", err)
	}
	if err := r.client.Set(ctx, r.principalKey(terminalID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: saving principal for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}

func (r *redisSessionRepository) LoadPrincipal(ctx context.Context, terminalID string) (*models.AuthUser, error) {
	payload, err := r.client.Get(ctx, r.principalKey(terminalID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

func (r *redisSessionRepository) DeletePrincipal(ctx context.Context, terminalID string) error {
	if err := r.client.Del(ctx, r.principalKey(terminalID)).Err(); err != nil {
		return fmt.Errorf("%w: deleting principal for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}

func (r *redisSessionRepository) LoadSettings(ctx context.Context, terminalID string) (*models.UISettings, error) {
	fields, err := r.client.HGetAll(ctx, r.settingsKey(terminalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: loading settings for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	settings := models.UISettings{
		Theme:        models.Theme(fields["theme"]),
		PrimaryColor: fields["primary_color"],
	}
	if settings.FontSize, err = strconv.Atoi(fields["font_size"]); err != nil {
		return nil, fmt.Errorf("%w: bad font_size %q", ErrDatabaseError, fields["font_size"])
	}
	if ts, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		settings.UpdatedAt = time.Unix(ts, 0).UTC()
	}
	return &settings, nil
}

func (r *redisSessionRepository) SaveSettings(ctx context.Context, terminalID string, settings *models.UISettings) error {
	err := r.client.HSet(ctx, r.settingsKey(terminalID), map[string]interface{}{
		"theme":         string(settings.Theme),
		"primary_color": settings.PrimaryColor,
		"font_size":     settings.FontSize,
		"updated_at":    settings.UpdatedAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: saving settings for terminal %s: %v", ErrDatabaseError, terminalID, err)
	}
	return nil
}
