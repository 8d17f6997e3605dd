package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	Payments     PaymentsConfig
	FeatureFlags FeatureFlagsConfig
	Webhook      WebhookConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HARVESTLANE_APP_ENV" required:"true"`
	Port         string `envconfig:"HARVESTLANE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HARVESTLANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HARVESTLANE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HARVESTLANE_DB_DSN"`
	Driver string `envconfig:"HARVESTLANE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HARVESTLANE_DB_HOST"`
	LegacyPort     int    `envconfig:"HARVESTLANE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HARVESTLANE_DB_USER"`
	LegacyPassword string `envconfig:"HARVESTLANE_DB_PASSWORD"`
	LegacyName     string `envconfig:"HARVESTLANE_DB_NAME"`
	LegacySSLMode  string `envconfig:"HARVESTLANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HARVESTLANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HARVESTLANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HARVESTLANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HARVESTLANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either HARVESTLANE_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"HARVESTLANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HARVESTLANE_REDIS_ADDR"`
	Password     string        `envconfig:"HARVESTLANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"HARVESTLANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HARVESTLANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HARVESTLANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HARVESTLANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HARVESTLANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HARVESTLANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HARVESTLANE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HARVESTLANE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HARVESTLANE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type StripeConfig struct {
	APIKey string `envconfig:"HARVESTLANE_STRIPE_API_KEY"`
	Secret string `envconfig:"HARVESTLANE_STRIPE_WEBHOOK_SECRET"`
	Env    string `envconfig:"HARVESTLANE_STRIPE_ENV" default:"test"`
}

// Environment reports the configured Stripe environment.
func (s StripeConfig) Environment() string {
	return s.Env
}

type PaymentsConfig struct {
	Currency          string `envconfig:"HARVESTLANE_PAYMENTS_CURRENCY" default:"cad"`
	DefaultSuccessURL string `envconfig:"HARVESTLANE_PAYMENTS_SUCCESS_URL"`
	DefaultCancelURL  string `envconfig:"HARVESTLANE_PAYMENTS_CANCEL_URL"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HARVESTLANE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HARVESTLANE_AUTO_MIGRATE" default:"false"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"HARVESTLANE_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}
