package aiprovider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects and configures the active AI provider backend.
type Config struct {
	// Provider selects the backend: "claude" or "openai".
	Provider string

	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// LoadConfigFromEnv loads the provider configuration from environment
// variables, following the same env-var-with-validated-defaults shape the
// teacher's summarizer configs use.
//
// Environment variables:
//   - AI_PROVIDER: "claude" or "openai" (default: "claude")
//   - AI_MODEL: backend model identifier (default depends on provider)
//   - AI_MAX_TOKENS: max response tokens (default: 1024)
//   - AI_TIMEOUT_S: per-call timeout in seconds (default: 60)
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		Provider:  envOr("AI_PROVIDER", "claude"),
		MaxTokens: 1024,
		Timeout:   CallTimeout,
	}
	if v := os.Getenv("AI_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid AI_MAX_TOKENS %q: must be a positive integer", v)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("AI_TIMEOUT_S"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid AI_TIMEOUT_S %q: must be a positive integer", v)
		}
		cfg.Timeout = time.Duration(n) * time.Second
	}

	switch cfg.Provider {
	case "claude":
		cfg.Model = envOr("AI_MODEL", "claude-sonnet-4-5-20250929")
	case "openai":
		cfg.Model = envOr("AI_MODEL", "gpt-4o-mini")
	default:
		return Config{}, fmt.Errorf("unknown AI_PROVIDER %q: must be \"claude\" or \"openai\"", cfg.Provider)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
