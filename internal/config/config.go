package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	// AI collaborator configuration
	AnthropicAPIKey   string
	ClaudeModel       string
	ClaudeFastModel   string
	ReplicateAPIToken string
	ReplicateModel    string
	// Admin auth (optional): either a shared HS256 secret or a JWKS endpoint
	AuthSecret  string
	AuthJWKSURL string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// AI collaborators
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:       getEnv("CLAUDE_MODEL_PRIMARY", "claude-3-sonnet-20240229"),
		ClaudeFastModel:   getEnv("CLAUDE_MODEL_FAST", "claude-3-haiku-20240307"),
		ReplicateAPIToken: getEnv("REPLICATE_API_TOKEN", ""),
		ReplicateModel:    getEnv("REPLICATE_MODEL_PRIMARY", "black-forest-labs/flux-1.1-pro"),
		// Auth is optional for local admin use; enable by setting either value
		AuthSecret:  getEnv("AUTH_SECRET", ""),
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate checks that every required external configuration value is present.
// A missing value is startup-fatal: the caller must abort rather than serve
// traffic half-initialized.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.AnthropicAPIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}
	if c.ReplicateAPIToken == "" {
		missing = append(missing, "REPLICATE_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
