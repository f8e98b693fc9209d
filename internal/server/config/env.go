package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. When environ is nil
// the process environment is used, after loading a .env file from the
// working directory if one exists. Unset variables keep the current value.
func parseEnv(config *Config, environ map[string]string) error {
	if environ == nil {
		// a missing .env is the normal production case
		_ = godotenv.Load()
	}

	if err := env.ParseWithOptions(config, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
