package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Cart     CartConfig
	Pricing  PricingConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TET_APP_ENV" required:"true"`
	Port         string `envconfig:"TET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"TET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TET_REDIS_ADDR"`
	Password     string        `envconfig:"TET_REDIS_PASSWORD"`
	DB           int           `envconfig:"TET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes the guest cart keyspace.
type CartConfig struct {
	// GuestTTL bounds how long an abandoned guest cart survives in Redis.
	GuestTTL time.Duration `envconfig:"TET_CART_GUEST_TTL" default:"720h"`
}

type PricingConfig struct {
	BaseURL     string        `envconfig:"TET_PRICING_BASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"TET_PRICING_TIMEOUT" default:"10s"`
	DiscountTTL time.Duration `envconfig:"TET_PRICING_DISCOUNT_TTL" default:"5m"`
}

type CheckoutConfig struct {
	BaseURL string        `envconfig:"TET_CHECKOUT_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"TET_CHECKOUT_TIMEOUT" default:"15s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TET_CORS_ALLOWED_ORIGINS" default:"http://localhost:4200"`
}
