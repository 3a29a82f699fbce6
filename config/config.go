package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configurable engine and host parameters.
type Config struct {
	BoardRows       int   `json:"board_rows" env:"BOARD_ROWS"`
	BoardCols       int   `json:"board_cols" env:"BOARD_COLS"`
	FlashDurationMS int   `json:"flash_duration_ms" env:"FLASH_DURATION_MS"`
	TickRate        int   `json:"tick_rate" env:"TICK_RATE"` // steps per second
	RepairAttempts  int   `json:"repair_attempts" env:"REPAIR_ATTEMPTS"`
	Seed            int64 `json:"seed" env:"SEED"` // 0 picks a fresh seed per round

	// Skin names the attribute label set; SkinsFile is an optional YAML file of extra skins.
	Skin      string `json:"skin" env:"SKIN"`
	SkinsFile string `json:"skins_file" env:"SKINS_FILE"`

	WSPort      int `json:"ws_port" env:"WS_PORT"`
	MaxSessions int `json:"max_sessions" env:"MAX_SESSIONS"`

	// AuthBaseURL enables JWT auth on the websocket when set.
	AuthBaseURL string `json:"auth_base_url" env:"AUTH_BASE_URL"`
	// DatabaseURL enables round telemetry in Postgres when set.
	DatabaseURL string `json:"database_url" env:"DATABASE_URL"`

	Debug bool `json:"debug" env:"DEBUG"`
}

// Defaults returns a Config matching the arcade cabinet build.
func Defaults() *Config {
	return &Config{
		BoardRows:       3,
		BoardCols:       3,
		FlashDurationMS: 500,
		TickRate:        60,
		RepairAttempts:  1000,
		Skin:            "vector",
		SkinsFile:       "skins.yaml",
		WSPort:          8080,
		MaxSessions:     64,
	}
}

// ParseEnv loads configuration from environment variables into target.
// Fields whose variables are unset keep their current values.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads config.json from the working directory, if present, then
// applies environment variable overrides.
func Load() *Config {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit JSON path. A missing file is not an
// error; a bad file or bad environment value is logged and skipped.
func LoadFile(path string) *Config {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		fromFile := *cfg
		if err := json.NewDecoder(f).Decode(&fromFile); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		} else {
			*cfg = fromFile
		}
	}

	withEnv := *cfg
	if err := ParseEnv(&withEnv); err != nil {
		slog.Warn("ignoring environment overrides", "tag", "config", "err", err)
		return cfg
	}
	return &withEnv
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.BoardRows < 1 || c.BoardCols < 1 || c.BoardRows*c.BoardCols < 3:
		return fmt.Errorf("%w: board %dx%d cannot hold a set", ErrInvalidConfig, c.BoardRows, c.BoardCols)
	case c.TickRate < 1:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	case c.FlashDurationMS < 0:
		return fmt.Errorf("%w: flash_duration_ms must not be negative", ErrInvalidConfig)
	case c.MaxSessions < 1:
		return fmt.Errorf("%w: max_sessions must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	}
	return nil
}

// FlashTicks converts the flash duration to steps at TickRate, at least one.
func (c *Config) FlashTicks() int {
	ticks := c.FlashDurationMS * c.TickRate / 1000
	if ticks < 1 {
		return 1
	}
	return ticks
}

// TickInterval is the wall-clock length of one step.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate < 1 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
