// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	AccessPolicyFile string
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSOrigins      []string
	TrustProxy       bool

	// Bootstrap admin, created on startup when both are set
	AdminEmail    string
	AdminPassword string
}

// envConfig is decoded from the environment before flags are applied.
type envConfig struct {
	Port             int           `env:"PORT,default=3318"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,default=12h"`
	AccessPolicyFile string        `env:"ACCESS_POLICY_FILE"`
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST,default=10"`
	CORSOrigins      string        `env:"CORS_ORIGINS,default=*"`
	TrustProxy       bool          `env:"TRUST_PROXY,default=false"`
	AdminEmail       string        `env:"ADMIN_EMAIL"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
}

// ParseFlags reads an optional .env file, then the environment, then args.
// Flags take precedence over environment variables.
func ParseFlags(args []string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	cfg := Config{
		AdminEmail:    env.AdminEmail,
		AdminPassword: env.AdminPassword,
	}
	var origins string

	fs := flag.NewFlagSet("budget-intake", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", env.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", env.DatabaseURL, "PostgreSQL connection URL")
	fs.StringVar(&cfg.AccessPolicyFile, "policy", env.AccessPolicyFile, "YAML access policy overrides")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", env.TokenTTL, "Bearer token lifetime")
	fs.Float64Var(&cfg.RateLimitRPS, "rate", env.RateLimitRPS, "Public intake requests per second per client")
	fs.IntVar(&cfg.RateLimitBurst, "burst", env.RateLimitBurst, "Public intake burst size per client")
	fs.StringVar(&origins, "cors", env.CORSOrigins, "Comma separated allowed origins")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", env.TrustProxy, "Rate limit by X-Forwarded-For (only behind a trusted proxy)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", env.JWTSecret, "Token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.CORSOrigins = splitList(origins)

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("token TTL must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, errors.New("rate limit and burst must be positive")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
