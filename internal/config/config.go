package config

import (
	"fmt"
	"os"
)

// Execution modes for the task dispatcher.
const (
	// ModeCrew runs one planning pipeline bound to every tool.
	ModeCrew = "crew"

	// ModeSplit runs one isolated single-tool task per capability.
	ModeSplit = "split"
)

// Default values applied when the environment leaves a setting unset.
const (
	DefaultDescopeBaseURL = "https://api.descope.com"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAddr           = ":5001"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and passed by value through dependency injection; nothing reads the
// environment after Load returns.
type Config struct {
	// ProjectID is the Descope project identifier (DESCOPE_PROJECT_ID).
	ProjectID string

	// ClientID is the expected session-token audience (DESCOPE_CLIENT_ID).
	ClientID string

	// DescopeBaseURL is the base URL of the Descope API (DESCOPE_BASE_URL).
	DescopeBaseURL string

	// GeminiAPIKey authenticates LLM calls (GEMINI_API_KEY).
	GeminiAPIKey string

	// GeminiModel selects the model used by the task engine (GEMINI_MODEL).
	GeminiModel string

	// Mode selects the dispatch strategy (EXECUTION_MODE): "crew" or "split".
	Mode string

	// Addr is the listen address of the HTTP server (ADDR).
	Addr string

	// LogLevel is the slog level name (LOG_LEVEL).
	LogLevel string
}

// Load reads configuration from the environment. Missing required values are
// reported as errors so startup can fail fast instead of limping along with a
// half-initialized client.
func Load() (*Config, error) {
	cfg := &Config{
		ProjectID:      os.Getenv("DESCOPE_PROJECT_ID"),
		ClientID:       os.Getenv("DESCOPE_CLIENT_ID"),
		DescopeBaseURL: getEnv("DESCOPE_BASE_URL", DefaultDescopeBaseURL),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", DefaultGeminiModel),
		Mode:           getEnv("EXECUTION_MODE", ModeSplit),
		Addr:           getEnv("ADDR", DefaultAddr),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required values are present and the mode is known.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("DESCOPE_PROJECT_ID is required")
	}
	if c.Mode != ModeCrew && c.Mode != ModeSplit {
		return fmt.Errorf("invalid execution mode %q: must be %q or %q", c.Mode, ModeCrew, ModeSplit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
