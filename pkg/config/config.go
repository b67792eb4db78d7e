package config

import (
	"fmt"
	"net/url"
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
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Lookups LookupsConfig
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
	Env          string `envconfig:"RATEDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"RATEDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RATEDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RATEDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"RATEDESK_DB_DSN"`

	Host     string `envconfig:"RATEDESK_DB_HOST"`
	Port     int    `envconfig:"RATEDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"RATEDESK_DB_USER"`
	Password string `envconfig:"RATEDESK_DB_PASSWORD"`
	Name     string `envconfig:"RATEDESK_DB_NAME"`
	SSLMode  string `envconfig:"RATEDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RATEDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RATEDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RATEDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RATEDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from discrete parts when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either RATEDESK_DB_DSN or RATEDESK_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"RATEDESK_REDIS_URL"`
	Address      string        `envconfig:"RATEDESK_REDIS_ADDR"`
	Password     string        `envconfig:"RATEDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"RATEDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RATEDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RATEDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RATEDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RATEDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RATEDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RATEDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RATEDESK_JWT_ISSUER" default:"ratedesk"`
	ExpirationMinutes int    `envconfig:"RATEDESK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type LookupsConfig struct {
	CacheTTL time.Duration `envconfig:"RATEDESK_LOOKUPS_CACHE_TTL" default:"5m"`
}
