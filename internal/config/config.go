package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"FlipCards/internal/state"

	"github.com/joho/godotenv"
)

// Config is the application configuration.
type Config struct {
	DBPath         string
	DrawColor      string
	LineWidth      float32
	EraserWidth    float32
	SharePort      int
	AllowedOrigins []string
	LogLevel       slog.Level
}

// Default is the configuration used when nothing is set.
var Default = Config{
	DBPath:         "flipcards.db",
	DrawColor:      "#0000FF",
	LineWidth:      3,
	EraserWidth:    48,
	SharePort:      8888,
	AllowedOrigins: []string{"*"},
	LogLevel:       slog.LevelInfo,
}

// Load reads the optional env files (".env" when none are given) and then
// the FLIPCARDS_* environment variables on top of Default.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
		log.Printf("[CONFIG] No env file found, using environment: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the environment alone.
func FromEnv() (Config, error) {
	cfg := Default
	cfg.AllowedOrigins = append([]string(nil), Default.AllowedOrigins...)

	if v := os.Getenv("FLIPCARDS_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FLIPCARDS_DRAW_COLOR"); v != "" {
		c, err := state.ParseHexColor(v)
		if err != nil {
			return Config{}, fmt.Errorf("FLIPCARDS_DRAW_COLOR: %w", err)
		}
		cfg.DrawColor = state.HexColor(c)
	}

	var err error
	if cfg.LineWidth, err = positiveFloat("FLIPCARDS_LINE_WIDTH", cfg.LineWidth); err != nil {
		return Config{}, err
	}
	if cfg.EraserWidth, err = positiveFloat("FLIPCARDS_ERASER_WIDTH", cfg.EraserWidth); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("FLIPCARDS_SHARE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("FLIPCARDS_SHARE_PORT: invalid port %q", v)
		}
		cfg.SharePort = port
	}

	if v := os.Getenv("FLIPCARDS_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if v := os.Getenv("FLIPCARDS_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("FLIPCARDS_LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

func positiveFloat(key string, def float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %v", key, f)
	}
	return float32(f), nil
}
