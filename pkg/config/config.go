package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Accounts     AccountsConfig
	Steam        SteamConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COSMETICS_APP_ENV" required:"true"`
	Port         string `envconfig:"COSMETICS_APP_PORT" default:"2219"`
	LogLevel     string `envconfig:"COSMETICS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COSMETICS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COSMETICS_DB_DSN"`
	Driver string `envconfig:"COSMETICS_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"COSMETICS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COSMETICS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COSMETICS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COSMETICS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"COSMETICS_REDIS_URL"`
	Address      string        `envconfig:"COSMETICS_REDIS_ADDR"`
	Password     string        `envconfig:"COSMETICS_REDIS_PASSWORD"`
	DB           int           `envconfig:"COSMETICS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COSMETICS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COSMETICS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COSMETICS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COSMETICS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COSMETICS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AccountsConfig points at the external identity service that owns user
// records and perk lists.
type AccountsConfig struct {
	BaseURL      string        `envconfig:"COSMETICS_ACCOUNTS_BASE_URL" default:"https://account.polus.gg"`
	ServiceToken string        `envconfig:"COSMETICS_ACCOUNT_AUTH_TOKEN" required:"true"`
	Timeout      time.Duration `envconfig:"COSMETICS_ACCOUNTS_TIMEOUT" default:"10s"`
}

// SteamConfig carries the Steam partner Web API credentials. Sandbox flips
// InitTxn onto the sandbox interface; FinalizeTxn has no sandbox variant.
type SteamConfig struct {
	PublisherKey string        `envconfig:"COSMETICS_STEAM_PUBLISHER_KEY" required:"true"`
	AppID        int           `envconfig:"COSMETICS_STEAM_APP_ID" default:"1653240"`
	BaseURL      string        `envconfig:"COSMETICS_STEAM_BASE_URL" default:"https://partner.steam-api.com"`
	Sandbox      bool          `envconfig:"COSMETICS_STEAM_SANDBOX" default:"true"`
	Timeout      time.Duration `envconfig:"COSMETICS_STEAM_TIMEOUT" default:"15s"`
}

type RateLimitConfig struct {
	PurchaseWindow    time.Duration `envconfig:"COSMETICS_PURCHASE_RATE_LIMIT_WINDOW" default:"1m"`
	PurchaseUserLimit int           `envconfig:"COSMETICS_PURCHASE_RATE_LIMIT_USER_LIMIT" default:"10"`
	PurchaseIPLimit   int           `envconfig:"COSMETICS_PURCHASE_RATE_LIMIT_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"COSMETICS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"COSMETICS_AUTO_MIGRATE" default:"false"`
}
