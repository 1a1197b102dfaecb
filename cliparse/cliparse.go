package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

const defaultEnvFile = ".env"

type Config struct {
	Port          int           `koanf:"port"`
	Host          string        `koanf:"host"`
	DatabaseURL   string        `koanf:"database_url"`
	DatabaseType  string        `koanf:"database_type"`
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	AIServiceURL  string        `koanf:"ai_service_url"`
	AITimeout     time.Duration `koanf:"ai_timeout"`
	AdminEmail    string        `koanf:"admin_email"`
	AdminPassword string        `koanf:"admin_password"`
	AuthRateRPS   float64       `koanf:"auth_rate_limit_rps"`
	AuthRateBurst int           `koanf:"auth_rate_limit_burst"`
	TrustProxy    bool          `koanf:"trust_proxy"`
}

// Addr returns the listen address for http.Server
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// envKeys maps recognised environment variables to config keys.
// Anything else in the environment is ignored.
var envKeys = map[string]string{
	"PORT":                  "port",
	"HOST":                  "host",
	"DATABASE_URL":          "database_url",
	"DATABASE_TYPE":         "database_type",
	"JWT_SECRET":            "jwt_secret",
	"TOKEN_TTL":             "token_ttl",
	"AI_SERVICE_URL":        "ai_service_url",
	"AI_TIMEOUT":            "ai_timeout",
	"ADMIN_EMAIL":           "admin_email",
	"ADMIN_PASSWORD":        "admin_password",
	"AUTH_RATE_LIMIT_RPS":   "auth_rate_limit_rps",
	"AUTH_RATE_LIMIT_BURST": "auth_rate_limit_burst",
	"TRUST_PROXY":           "trust_proxy",
}

// flagKeys covers flags whose name does not translate directly to a key
var flagKeys = map[string]string{
	"ai-url":     "ai_service_url",
	"auth-rps":   "auth_rate_limit_rps",
	"auth-burst": "auth_rate_limit_burst",
}

// ParseFlags builds the configuration from CLI flags, the environment and an
// optional .env file. Flags win over env, env wins over the file.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("ifjora", pflag.ContinueOnError)

	// Network
	fs.IntP("port", "p", 3000, "Server port")
	fs.String("host", "0.0.0.0", "Listen host")

	// Storage
	fs.StringP("database-url", "d", "", "Database URL")
	fs.StringP("database-type", "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("jwt-secret", "", "Token signing secret (prefer env)")
	fs.Duration("token-ttl", 7*24*time.Hour, "Lifetime of issued tokens")
	fs.String("admin-email", "", "Bootstrap admin account email")
	fs.String("admin-password", "", "Bootstrap admin account password (prefer env)")

	// AI service
	fs.String("ai-url", "", "Base URL of the AI scoring service (empty = simulator only)")
	fs.Duration("ai-timeout", 20*time.Second, "Timeout for a single AI analysis call")

	// Abuse protection
	fs.Float64("auth-rps", 1, "Allowed register/login requests per second per client")
	fs.Int("auth-burst", 10, "Burst size for register/login requests per client")
	fs.Bool("trust-proxy", false, "Take the client IP from X-Forwarded-For/X-Real-IP (only behind a reverse proxy)")

	envFile := fs.String("env-file", defaultEnvFile, "Optional dotenv file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(*envFile, fs.Changed("env-file")); err != nil {
		return Config{}, err
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"port":                  3000,
		"host":                  "0.0.0.0",
		"token_ttl":             7 * 24 * time.Hour,
		"ai_timeout":            20 * time.Second,
		"auth_rate_limit_rps":   1.0,
		"auth_rate_limit_burst": 10,
		"trust_proxy":           false,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Environment (includes anything the .env file set)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 3. Flags, only the ones explicitly set
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed || f.Name == "env-file" {
			return "", nil
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		return key, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadEnvFile populates the environment from a dotenv file without
// overriding variables that are already set. A missing default file is fine.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() error {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.AIServiceURL = strings.TrimRight(strings.TrimSpace(c.AIServiceURL), "/")
	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))
	c.DatabaseType = strings.ToLower(strings.TrimSpace(c.DatabaseType))

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if c.DatabaseType == "" {
		c.DatabaseType = inferDatabaseType(c.DatabaseURL)
	}
	if c.DatabaseType != DatabasePostgres && c.DatabaseType != DatabaseSQLite {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}

	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}

	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.AITimeout <= 0 {
		return errors.New("AI timeout must be positive")
	}
	if c.AuthRateRPS < 0 || c.AuthRateBurst < 0 {
		return errors.New("auth rate limit must not be negative")
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD required when ADMIN_EMAIL is set")
	}

	return nil
}

func inferDatabaseType(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DatabasePostgres
	}
	return DatabaseSQLite
}
