// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	envAddr                = "CHESS_ADDR"
	envAllowedOrigins      = "CHESS_ALLOWED_ORIGINS"
	envArchiveDir          = "CHESS_ARCHIVE_DIR"
	envMatchmakingInterval = "CHESS_MATCHMAKING_INTERVAL"
	envLogLevel            = "CHESS_LOG_LEVEL"
)

// Config holds the server settings.
type Config struct {
	Addr string
	// AllowedOrigins is a comma-separated list, as the CORS middleware expects.
	AllowedOrigins string
	// ArchiveDir is where finished games are stored. Empty keeps the archive in memory.
	ArchiveDir          string
	MatchmakingInterval time.Duration
	LogLevel            log.Level
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
	}
}

// Load overlays the CHESS_* environment variables on Default.
func Load() (Config, error) {
	cfg := Default()

	if v := os.Getenv(envAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(envAllowedOrigins); v != "" {
		cfg.AllowedOrigins = v
	}
	cfg.ArchiveDir = os.Getenv(envArchiveDir)

	if v := os.Getenv(envMatchmakingInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", envMatchmakingInterval, err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("%s: must be positive, got %s", envMatchmakingInterval, d)
		}
		cfg.MatchmakingInterval = d
	}

	if v := os.Getenv(envLogLevel); v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func ParseLogLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
