package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_terminal/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CURRENCY_SCALE", "")
	t.Setenv("JWT_SECRET", "config-test-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, int32(2), cfg.CurrencyScale)
	assert.Equal(t, "1", cfg.AdminRoleCode)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("CURRENCY_SCALE", "0")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("JWT_SECRET", "config-test-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, int32(0), cfg.CurrencyScale)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSAllowedOrigins)
}

func TestLoadRequiresSecretInReleaseMode(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "release")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("GIN_MODE", "debug")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")
	_, err := Load()
	assert.Error(t, err)
}

func TestParseSeed(t *testing.T) {
	raw := []byte(`
tables:
  - id: t1
    name: Window
    capacity: 4
  - id: t2
    capacity: 2
    status: cleaning_needed
ingredients:
  - id: rice
    name: Rice
    unit: Kg
    stock: "10.5"
    min_stock: "3"
  - id: salt
    name: Salt
    unit: g
    stock: "500"
`)
	seed, err := ParseSeed(raw)
	require.NoError(t, err)
	require.Len(t, seed.Tables, 2)
	assert.Equal(t, models.TableStatusAvailable, seed.Tables[0].Status)
	assert.Equal(t, "t2", seed.Tables[1].Name)
	assert.Equal(t, models.TableStatusCleaningNeeded, seed.Tables[1].Status)

	require.Len(t, seed.Ingredients, 2)
	assert.Equal(t, models.UnitKg, seed.Ingredients[0].Unit)
	assert.Equal(t, "10.5", seed.Ingredients[0].Stock.String())
	require.NotNil(t, seed.Ingredients[0].MinStock)
	assert.Nil(t, seed.Ingredients[1].MinStock)
}

func TestParseSeedRejectsBadValues(t *testing.T) {
	_, err := ParseSeed([]byte("ingredients:\n  - id: x\n    unit: barrel\n"))
	assert.Error(t, err)
	_, err = ParseSeed([]byte("ingredients:\n  - id: x\n    unit: kg\n    stock: lots\n"))
	assert.Error(t, err)
	_, err = ParseSeed([]byte("tables:\n  - id: t1\n    capacity: 2\n    status: broken\n"))
	assert.Error(t, err)
}
