package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{"PGSQL_URL": "postgres://localhost/fiado"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Equal(t, 3, cfg.MaxTxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.TxRetryBackoff)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestFromViper_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{name: "postgres without url", overrides: map[string]any{}, wantErr: "PGSQL_URL is required"},
		{name: "unknown driver", overrides: map[string]any{"STORAGE_DRIVER": "sqlite"}, wantErr: "unknown STORAGE_DRIVER"},
		{name: "memory in production", overrides: map[string]any{"STORAGE_DRIVER": "memory", "IS_PRODUCTION": true, "JWT_SECRET": "s"}, wantErr: "not allowed in production"},
		{name: "missing secret in production", overrides: map[string]any{"PGSQL_URL": "postgres://x", "IS_PRODUCTION": true}, wantErr: "JWT_SECRET is required"},
		{name: "bad timeout", overrides: map[string]any{"STORAGE_DRIVER": "memory", "LEDGER_TX_TIMEOUT": "soon"}, wantErr: "LEDGER_TX_TIMEOUT"},
		{name: "zero backoff", overrides: map[string]any{"STORAGE_DRIVER": "memory", "LEDGER_RETRY_BACKOFF": "0s"}, wantErr: "must be positive"},
		{name: "negative retries", overrides: map[string]any{"STORAGE_DRIVER": "memory", "LEDGER_MAX_TX_RETRIES": -1}, wantErr: "must not be negative"},
		{name: "bad log level", overrides: map[string]any{"STORAGE_DRIVER": "memory", "LOG_LEVEL": "loud"}, wantErr: "invalid LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newTestViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromViper_MemoryDriverAndOrigins(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"STORAGE_DRIVER":       "MEMORY",
		"CORS_ALLOWED_ORIGINS": " https://a.example , ,https://b.example",
		"LOG_LEVEL":            "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}
