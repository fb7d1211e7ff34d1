package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	AppURL    string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Access   AccessConfig
	Pricing  PricingConfig
	Webhooks WebhookConfig
	Email    EmailConfig
	Reports  ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AccessConfig governs token lifetimes and the redeemed-session JWT.
type AccessConfig struct {
	PassDuration  time.Duration
	SessionSecret string
	SessionTTL    time.Duration
	Issuer        string
}

// PricingConfig holds the checkout tier thresholds in cents.
type PricingConfig struct {
	ReactivationCents int64
	LifetimeCents     int64
}

// WebhookConfig carries provider-side secrets.
type WebhookConfig struct {
	KiwifySecret string
}

// EmailConfig configures the transactional email sender.
type EmailConfig struct {
	ResendAPIKey string
	From         string
	Workers      int
	MaxRetries   int
}

// ReportsConfig tunes diagnostic result caching.
type ReportsConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.AppURL = strings.TrimRight(v.GetString("APP_URL"), "/")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Access = AccessConfig{
		PassDuration:  parseDuration(v.GetString("ACCESS_PASS_DURATION"), 24*time.Hour),
		SessionSecret: v.GetString("ACCESS_SESSION_SECRET"),
		SessionTTL:    parseDuration(v.GetString("ACCESS_SESSION_TTL"), 30*24*time.Hour),
		Issuer:        v.GetString("ACCESS_ISSUER"),
	}

	cfg.Pricing = PricingConfig{
		ReactivationCents: v.GetInt64("PRICE_REACTIVATION_CENTS"),
		LifetimeCents:     v.GetInt64("PRICE_LIFETIME_CENTS"),
	}

	cfg.Webhooks = WebhookConfig{
		KiwifySecret: v.GetString("KIWIFY_WEBHOOK_SECRET"),
	}

	cfg.Email = EmailConfig{
		ResendAPIKey: v.GetString("RESEND_API_KEY"),
		From:         v.GetString("EMAIL_FROM"),
		Workers:      v.GetInt("EMAIL_WORKERS"),
		MaxRetries:   v.GetInt("EMAIL_MAX_RETRIES"),
	}

	cfg.Reports = ReportsConfig{
		CacheTTL: parseDuration(v.GetString("REPORTS_CACHE_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("APP_URL", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "custozero")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ACCESS_PASS_DURATION", "24h")
	v.SetDefault("ACCESS_SESSION_SECRET", "dev_secret")
	v.SetDefault("ACCESS_SESSION_TTL", "720h")
	v.SetDefault("ACCESS_ISSUER", "custozero-api")

	// R$ 7,90 reactivation, R$ 47,00 lifetime.
	v.SetDefault("PRICE_REACTIVATION_CENTS", 790)
	v.SetDefault("PRICE_LIFETIME_CENTS", 4700)

	v.SetDefault("KIWIFY_WEBHOOK_SECRET", "")

	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "CustoZero <onboarding@resend.dev>")
	v.SetDefault("EMAIL_WORKERS", 2)
	v.SetDefault("EMAIL_MAX_RETRIES", 3)

	v.SetDefault("REPORTS_CACHE_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
