package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SecurityConfig holds the two token trust domains. The customer and
// admin secrets must be distinct values: a customer token must never
// verify as an admin cookie.
type SecurityConfig struct {
	CustomerJWTSecret string
	AdminJWTSecret    string
	CustomerTokenTTL  time.Duration
	AdminTokenTTL     time.Duration
	AdminEmail        string
	ResetTokenTTL     time.Duration
	VerifyCodeTTL     time.Duration
	ResetURLBase      string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RateLimitConfig struct {
	ResendMax    int
	ResendWindow time.Duration
}

type SessionConfig struct {
	Timeout     time.Duration
	WarningLead time.Duration
}

// StoreConfig selects the backing for verification codes and rate-limit
// windows: "memory" for a single process, "redis" when several API
// instances share state.
type StoreConfig struct {
	Backend string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Security         SecurityConfig
	SMTP             SMTPConfig
	RateLimit        RateLimitConfig
	Session          SessionConfig
	Store            StoreConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ORIGIGANICS")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Environment == "production" {
		if c.Security.CustomerJWTSecret == "" || c.Security.AdminJWTSecret == "" {
			return fmt.Errorf("jwt secrets are required in production")
		}
		if c.Security.CustomerJWTSecret == c.Security.AdminJWTSecret {
			return fmt.Errorf("customer and admin jwt secrets must differ")
		}
	}
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.customertokenttl", "720h") // 30 days
	v.SetDefault("security.admintokenttl", "24h")
	v.SetDefault("security.resettokenttl", "1h")
	v.SetDefault("security.verifycodettl", "10m")
	v.SetDefault("security.adminemail", "admin@origiganics.com")
	v.SetDefault("security.reseturlbase", "https://origiganics.com/reset-password")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@origiganics.com")

	v.SetDefault("ratelimit.resendmax", 3)
	v.SetDefault("ratelimit.resendwindow", "10m")

	v.SetDefault("session.timeout", "30m")
	v.SetDefault("session.warninglead", "5m")

	v.SetDefault("store.backend", "memory")
}
