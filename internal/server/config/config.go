// Package config handles configuration for the server, applying in order:
// built-in defaults, an optional JSON file, environment variables (with an
// optional .env file) and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the FitKeeper server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the public endpoints.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - AccessTokenSecret / RefreshTokenSecret: HMAC secrets for HS256 tokens.
//     Both are required and must differ.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - BcryptCost: work factor for password hashes.
type Config struct {
	EndpointAddrHTTP             string        `env:"HTTP_ADDRESS"`
	EndpointAddrGRPC             string        `env:"GRPC_ADDRESS"`
	DatabaseDSN                  string        `env:"DATABASE_DSN"`
	AccessTokenSecret            string        `env:"JWT_SECRET"`
	RefreshTokenSecret           string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	BcryptCost                   int           `env:"BCRYPT_COST"`
}

var (
	ErrMissingAccessSecret  = errors.New("access token secret is not configured")
	ErrMissingRefreshSecret = errors.New("refresh token secret is not configured")
	ErrSameSecrets          = errors.New("access and refresh token secrets must differ")
	ErrInvalidTTL           = errors.New("token validity duration must be positive")
	ErrInvalidBcryptCost    = errors.New("bcrypt cost out of range")
)

// LoadDefaults populates Config with development defaults. Secrets are
// left empty: they must come from the environment, a config file or flags.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = 10
}

// Validate reports configuration that must stop the process at startup.
func (c *Config) Validate() error {
	var errs []error

	if c.AccessTokenSecret == "" {
		errs = append(errs, ErrMissingAccessSecret)
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, ErrMissingRefreshSecret)
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, ErrSameSecrets)
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		errs = append(errs, ErrInvalidTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBcryptCost, c.BcryptCost))
	}

	return errors.Join(errs...)
}

// LoadConfig builds and validates a Config from os.Args and the process
// environment.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], nil)
}

// load is LoadConfig with explicit inputs. A nil environ means the real
// process environment (after reading .env, if present).
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
