package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/loan_tracker?sslmode=disable")
	t.Setenv("AUTH_SECRET_KEY", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SummaryTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.True(t, cfg.GetMaxPrincipalAmount().Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, "Asia/Kolkata", cfg.GetLocation().String())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file:loan.db?_foreign_keys=on")
	t.Setenv("AUTH_SECRET_KEY", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_SUMMARY_TTL", "30m")
	t.Setenv("MAX_PRINCIPAL_AMOUNT", "250000.50")
	t.Setenv("BUSINESS_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SummaryTTL)
	assert.True(t, cfg.GetMaxPrincipalAmount().Equal(decimal.RequireFromString("250000.50")))
	assert.Equal(t, time.UTC, cfg.GetLocation())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "missing database url",
			env:      map[string]string{"AUTH_SECRET_KEY": testSecret},
			expected: "DATABASE_URL is required",
		},
		{
			name:     "short secret",
			env:      map[string]string{"DATABASE_URL": "x", "AUTH_SECRET_KEY": "short"},
			expected: "AUTH_SECRET_KEY",
		},
		{
			name:     "unknown driver",
			env:      map[string]string{"DATABASE_URL": "x", "AUTH_SECRET_KEY": testSecret, "DATABASE_DRIVER": "mysql"},
			expected: "DATABASE_DRIVER",
		},
		{
			name:     "non positive ceiling",
			env:      map[string]string{"DATABASE_URL": "x", "AUTH_SECRET_KEY": testSecret, "MAX_PRINCIPAL_AMOUNT": "0"},
			expected: "MAX_PRINCIPAL_AMOUNT",
		},
		{
			name:     "unknown timezone",
			env:      map[string]string{"DATABASE_URL": "x", "AUTH_SECRET_KEY": testSecret, "BUSINESS_TIMEZONE": "Mars/Olympus"},
			expected: "BUSINESS_TIMEZONE",
		},
		{
			name:     "five field cron",
			env:      map[string]string{"DATABASE_URL": "x", "AUTH_SECRET_KEY": testSecret, "SCHEDULER_REPORT_CRON": "0 6 * * *"},
			expected: "SCHEDULER_REPORT_CRON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
