package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coach")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 6*time.Hour, cfg.MarketRatesRefresh)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coach")
	t.Setenv("ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MARKET_RATES_REFRESH", "30m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("S3_BUCKET", "coach-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.MarketRatesRefresh)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL is required"},
		{"bad refresh", map[string]string{"MARKET_RATES_REFRESH": "soon"}, "MARKET_RATES_REFRESH"},
		{"refresh too short", map[string]string{"MARKET_RATES_REFRESH": "5s"}, "at least 1m"},
		{"bad rate limit", map[string]string{"RATE_LIMIT_PER_MINUTE": "lots"}, "RATE_LIMIT_PER_MINUTE"},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/coach")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
