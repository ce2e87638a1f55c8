// Package config loads front-end configuration from the environment, with an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBase       = "http://127.0.0.1:8000"
	defaultConfirmPhrase = "y"
)

// Config holds everything the TUI needs to reach the backend.
type Config struct {
	APIBase        string
	TradingEnabled bool
	ConfirmPhrase  string
	AltScreen      bool
	DebugLogPath   string
	InputCharLimit int
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; a missing file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBase:        EnvOr("SUPERAGENT_API_BASE", defaultAPIBase),
		TradingEnabled: EnvOrBool("SUPERAGENT_TRADING_ENABLED", true),
		ConfirmPhrase:  strings.ToLower(EnvOr("SUPERAGENT_CONFIRM_PHRASE", defaultConfirmPhrase)),
		AltScreen:      EnvOrBool("SUPERAGENT_ALT_SCREEN", true),
		DebugLogPath:   EnvOr("SUPERAGENT_DEBUG_LOG", ""),
		InputCharLimit: EnvOrInt("SUPERAGENT_INPUT_CHAR_LIMIT", 4000),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields a running TUI cannot work without.
func (c Config) Validate() error {
	base := strings.TrimSpace(c.APIBase)
	if base == "" {
		return fmt.Errorf("SUPERAGENT_API_BASE cannot be empty")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("SUPERAGENT_API_BASE must be an http(s) URL, got %q", base)
	}
	if strings.TrimSpace(c.ConfirmPhrase) == "" {
		return fmt.Errorf("SUPERAGENT_CONFIRM_PHRASE cannot be empty")
	}
	if c.InputCharLimit <= 0 {
		return fmt.Errorf("SUPERAGENT_INPUT_CHAR_LIMIT must be > 0")
	}
	return nil
}

// EnvOr returns the trimmed value of key, or fallback when unset or blank.
func EnvOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// EnvOrInt parses key as an integer, or returns fallback.
func EnvOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// EnvOrBool parses key as a boolean, or returns fallback.
func EnvOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
