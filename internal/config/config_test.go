package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEZ_WALLET_STORAGE_PATH", "/tmp/wallet")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wallet", cfg.StoragePath)
	assert.Empty(t, cfg.ConfigPath)
	assert.False(t, cfg.Create)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Metrics)
	assert.False(t, cfg.Simulated)
}

func TestLoadAll(t *testing.T) {
	t.Setenv("LEZ_WALLET_STORAGE_PATH", "/data/w")
	t.Setenv("LEZ_WALLET_CONFIG_PATH", "/etc/lez.json")
	t.Setenv("LEZ_WALLET_PASSWORD", "pw")
	t.Setenv("LEZ_WALLET_CREATE", "true")
	t.Setenv("LEZ_WALLET_LOG_LEVEL", "DEBUG")
	t.Setenv("LEZ_WALLET_LOG_FORMAT", "zap")
	t.Setenv("LEZ_WALLET_METRICS", "1")
	t.Setenv("LEZ_WALLET_SIMULATED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{
		ConfigPath:  "/etc/lez.json",
		StoragePath: "/data/w",
		Password:    "pw",
		Create:      true,
		LogLevel:    "DEBUG",
		LogFormat:   "zap",
		Metrics:     true,
		Simulated:   true,
	}, cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing storage", map[string]string{}},
		{"create without password", map[string]string{"LEZ_WALLET_STORAGE_PATH": "w", "LEZ_WALLET_CREATE": "true"}},
		{"bad level", map[string]string{"LEZ_WALLET_STORAGE_PATH": "w", "LEZ_WALLET_LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"LEZ_WALLET_STORAGE_PATH": "w", "LEZ_WALLET_LOG_FORMAT": "xml"}},
		{"bad bool", map[string]string{"LEZ_WALLET_STORAGE_PATH": "w", "LEZ_WALLET_METRICS": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEZ_WALLET_STORAGE_PATH", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestCreateWithoutPassword(t *testing.T) {
	cfg := &Config{StoragePath: "w", Create: true, LogLevel: "info", LogFormat: "text"}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingPassword)
}

func TestLogValueHidesPassword(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("config", "cfg", &Config{StoragePath: "w", Password: "hunter2"})

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), `"storage_path":"w"`)
}
