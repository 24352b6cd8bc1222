package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath      = "CONFIG_PATH"
	EnvDBConnection    = "DB_CONNECTION"
	EnvJWTSecret       = "JWT_SECRET"
	EnvJWTExpiry       = "JWT_EXPIRY"
	EnvSessionSecret   = "SESSION_SECRET"
	EnvStripeSecretKey = "STRIPE_SECRET_KEY"
)

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// Token and session lifetime defaults.
const (
	defaultJWTExpiry      = 24 * time.Hour
	defaultSessionExpiry  = 24 * time.Hour
	defaultRememberExpiry = 30 * 24 * time.Hour
)

// Checkout defaults for the hosted payment flow.
const (
	defaultCheckoutProductID = "prod_S5lpY8QkDBwJhx"
	defaultDiscountVoucher   = "Uflvb62d"
)

// JWTConfig holds JWT secret and expiry settings for the token API.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// SessionConfig holds cookie-session secret and lifetime settings.
type SessionConfig struct {
	Secret         string        `yaml:"secret"`
	Expiry         time.Duration `yaml:"expiry"`
	RememberExpiry time.Duration `yaml:"remember-expiry"`
}

// CheckoutConfig holds the hosted-checkout processor settings.
type CheckoutConfig struct {
	StripeSecretKey string `yaml:"stripe-secret-key"`
	ProductID       string `yaml:"product-id"`
	DiscountVoucher string `yaml:"discount-voucher"`
}

// Config holds all resolved application configuration. It is loaded once
// at startup and passed explicitly into constructors.
type Config struct {
	DatabaseDSN string
	JWT         JWTConfig
	Session     SessionConfig
	Checkout    CheckoutConfig
}

// fileConfig maps the YAML layout of the config file.
type fileConfig struct {
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	Checkout CheckoutConfig `yaml:"checkout"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file and applies environment overrides and
// defaults. A missing file is tolerated when the environment supplies the
// database DSN.
func Load(configPath string) (Config, error) {
	var file fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &file); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	}

	cfg := Config{
		DatabaseDSN: strings.TrimSpace(file.DatabaseDSN),
		JWT:         file.JWT,
		Session:     file.Session,
		Checkout:    file.Checkout,
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = strings.TrimSpace(file.Database.DSN)
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if cfg.DatabaseDSN == "" {
		return Config{}, ErrMissingDatabaseDSN
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = randomSecret()
	}

	if secret := strings.TrimSpace(os.Getenv(EnvSessionSecret)); secret != "" {
		cfg.Session.Secret = secret
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = randomSecret()
	}
	if cfg.Session.Expiry <= 0 {
		cfg.Session.Expiry = defaultSessionExpiry
	}
	if cfg.Session.RememberExpiry <= 0 {
		cfg.Session.RememberExpiry = defaultRememberExpiry
	}

	if key := strings.TrimSpace(os.Getenv(EnvStripeSecretKey)); key != "" {
		cfg.Checkout.StripeSecretKey = key
	}
	if cfg.Checkout.ProductID == "" {
		cfg.Checkout.ProductID = defaultCheckoutProductID
	}
	if cfg.Checkout.DiscountVoucher == "" {
		cfg.Checkout.DiscountVoucher = defaultDiscountVoucher
	}

	return cfg, nil
}

// randomSecret generates a process-lifetime secret for deployments that
// configure none. Tokens signed with it do not survive a restart.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for a secret source.
		panic(fmt.Sprintf("config: generate secret: %v", err))
	}
	return hex.EncodeToString(buf)
}
