package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the duration of the test; t.Setenv first so
// the original value is restored afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "agri")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "smart_agriculture")
	t.Setenv("JWT_SECRET", "test-secret")

	// Optional keys cleared so ambient environment cannot skew defaults.
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_POOL_SIZE", "PORT",
		"ML_SERVICE_URL", "ML_TIMEOUT", "CHAT_COOLDOWN", "CHAT_SWEEP_INTERVAL",
		"JWT_ACCESS_TOKEN_DURATION",
	} {
		unsetEnv(t, key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5002", cfg.ML.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.ML.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Chat.CooldownWindow)
	assert.Equal(t, time.Minute, cfg.Chat.SweepInterval)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ML_SERVICE_URL", "http://ml.internal:9000")
	t.Setenv("CHAT_COOLDOWN", "10s")
	t.Setenv("DB_POOL_SIZE", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://ml.internal:9000", cfg.ML.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Chat.CooldownWindow)
	assert.Equal(t, 20, cfg.DB.MaxSize)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("DB_USER", "agri")
	// All missing variables must be reported together in one error.
	unsetEnv(t, "DB_PASSWORD")
	unsetEnv(t, "DB_NAME")
	unsetEnv(t, "JWT_SECRET")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHAT_COOLDOWN", "not-a-duration")

	cfg, err := LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "CHAT_COOLDOWN")
}

func TestPoolSizeClamping(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int
	}{
		{"below minimum", "2", 5},
		{"above maximum", "500", 100},
		{"in range", "25", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("DB_POOL_SIZE", tt.size)

			// Out-of-range sizes are clamped, not treated as startup failures.
			cfg, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DB.MaxSize)
		})
	}
}
