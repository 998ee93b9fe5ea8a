package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SUPABASE_CONNECTION_STRING", "postgres://localhost:5432/pixelmind")
	t.Setenv("QUOTA_STORE", "")
	t.Setenv("IMAGE_DAILY_LIMIT", "")
	t.Setenv("VIDEO_DAILY_LIMIT", "")
	t.Setenv("VIDEO_POLL_INTERVAL", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
}

func TestLoadEnvironmentVariables_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.QuotaStore)
	assert.Equal(t, 50, cfg.ImageDailyLimit)
	assert.Equal(t, 10, cfg.VideoDailyLimit)
	assert.Equal(t, 10*time.Second, cfg.VideoPollInterval)
	assert.Equal(t, "120-M", cfg.RateLimit)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.True(t, cfg.HasDatabase())
}

func TestLoadEnvironmentVariables_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("QUOTA_STORE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("IMAGE_DAILY_LIMIT", "5")
	t.Setenv("VIDEO_DAILY_LIMIT", "0")
	t.Setenv("VIDEO_POLL_INTERVAL", "2s")
	t.Setenv("ALLOWED_ORIGINS", "https://pixelmind.app, http://localhost:5173 ,")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.QuotaStore)
	assert.Equal(t, 5, cfg.ImageDailyLimit)
	assert.Equal(t, 0, cfg.VideoDailyLimit)
	assert.Equal(t, 2*time.Second, cfg.VideoPollInterval)
	assert.Equal(t, []string{"https://pixelmind.app", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadEnvironmentVariables_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		set     map[string]string
		wantErr string
	}{
		{name: "gemini key", unset: "GEMINI_API_KEY", wantErr: "GEMINI_API_KEY"},
		{name: "jwt secret", unset: "JWT_SECRET", wantErr: "JWT_SECRET"},
		{name: "postgres store without database", unset: "SUPABASE_CONNECTION_STRING", wantErr: "SUPABASE_CONNECTION_STRING"},
		{name: "redis store without url", set: map[string]string{"QUOTA_STORE": "redis", "REDIS_URL": ""}, wantErr: "REDIS_URL"},
		{name: "unknown store", set: map[string]string{"QUOTA_STORE": "dynamo"}, wantErr: "QUOTA_STORE"},
		{name: "bad limit", set: map[string]string{"IMAGE_DAILY_LIMIT": "-1"}, wantErr: "IMAGE_DAILY_LIMIT"},
		{name: "bad interval", set: map[string]string{"VIDEO_POLL_INTERVAL": "soon"}, wantErr: "VIDEO_POLL_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)

			if tt.unset != "" {
				t.Setenv(tt.unset, "")
			}

			for k, v := range tt.set {
				t.Setenv(k, v)
			}

			_, err := LoadEnvironmentVariables()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnvironmentVariables_MemoryStoreNeedsNoDatabase(t *testing.T) {
	setRequired(t)
	t.Setenv("QUOTA_STORE", "memory")
	t.Setenv("SUPABASE_CONNECTION_STRING", "")

	cfg, err := LoadEnvironmentVariables()

	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.QuotaStore)
	assert.False(t, cfg.HasDatabase())
}

func TestParseViewerFlags(t *testing.T) {
	t.Setenv("PIXELMIND_API_ENDPOINT", "")
	t.Setenv("PIXELMIND_TOKEN", "env-token")

	flags := ParseViewerFlags([]string{"-refresh", "5s"})

	assert.Equal(t, "http://localhost:8080", flags.Endpoint)
	assert.Equal(t, "env-token", flags.Token)
	assert.Equal(t, 5*time.Second, flags.Refresh)
}
