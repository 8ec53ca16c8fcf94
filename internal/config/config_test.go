package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"FLIPCARDS_DB_PATH",
	"FLIPCARDS_DRAW_COLOR",
	"FLIPCARDS_LINE_WIDTH",
	"FLIPCARDS_ERASER_WIDTH",
	"FLIPCARDS_SHARE_PORT",
	"FLIPCARDS_ALLOWED_ORIGINS",
	"FLIPCARDS_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default, cfg)
	assert.Equal(t, float32(48), cfg.EraserWidth)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLIPCARDS_DB_PATH", "/tmp/cards.db")
	t.Setenv("FLIPCARDS_DRAW_COLOR", "ff0000")
	t.Setenv("FLIPCARDS_LINE_WIDTH", "5.5")
	t.Setenv("FLIPCARDS_ERASER_WIDTH", "20")
	t.Setenv("FLIPCARDS_SHARE_PORT", "9000")
	t.Setenv("FLIPCARDS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("FLIPCARDS_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cards.db", cfg.DBPath)
	assert.Equal(t, "#FF0000", cfg.DrawColor)
	assert.Equal(t, float32(5.5), cfg.LineWidth)
	assert.Equal(t, float32(20), cfg.EraserWidth)
	assert.Equal(t, 9000, cfg.SharePort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, Default.AllowedOrigins)
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string]string{
		"FLIPCARDS_DRAW_COLOR":   "blue",
		"FLIPCARDS_LINE_WIDTH":   "thick",
		"FLIPCARDS_ERASER_WIDTH": "-3",
		"FLIPCARDS_SHARE_PORT":   "70000",
		"FLIPCARDS_LOG_LEVEL":    "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range envKeys {
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FLIPCARDS_SHARE_PORT=7777\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.SharePort)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default.SharePort, cfg.SharePort)
}
