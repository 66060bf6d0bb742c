package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string

	// BaseURL is embedded in verification links, FrontendURL in
	// password-reset links (the Flutter client owns that page).
	BaseURL     string
	FrontendURL string
}

// StoreConfig selects the record store backend. Driver is one of
// "memory", "sqlite" or "postgres".
type StoreConfig struct {
	Driver     string
	SQLitePath string

	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string

	// Bounds a single delivery attempt so a slow SMTP server cannot
	// stall the calling request.
	SendTimeoutSeconds int
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

func (s *StoreConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *SMTPConfig) Enabled() bool {
	return s.User != ""
}

func (s *SMTPConfig) SendTimeout() time.Duration {
	return time.Duration(s.SendTimeoutSeconds) * time.Second
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_BASE_URL", "http://localhost:3000")
	v.SetDefault("FRONTEND_URL", "http://localhost:8080")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("STORE_SQLITE_PATH", "draftforge.db")
	v.SetDefault("STORE_HOST", "localhost")
	v.SetDefault("STORE_PORT", 5432)
	v.SetDefault("STORE_USER", "draftforge")
	v.SetDefault("STORE_PASSWORD", "draftforge_secret")
	v.SetDefault("STORE_NAME", "draftforge")
	v.SetDefault("STORE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_SEND_TIMEOUT_SECONDS", 10)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("SERVER_HOST"),
			Port:        v.GetInt("SERVER_PORT"),
			Env:         v.GetString("SERVER_ENV"),
			BaseURL:     v.GetString("SERVER_BASE_URL"),
			FrontendURL: v.GetString("FRONTEND_URL"),
		},
		Store: StoreConfig{
			Driver:     v.GetString("STORE_DRIVER"),
			SQLitePath: v.GetString("STORE_SQLITE_PATH"),
			Host:       v.GetString("STORE_HOST"),
			Port:       v.GetInt("STORE_PORT"),
			User:       v.GetString("STORE_USER"),
			Password:   v.GetString("STORE_PASSWORD"),
			Name:       v.GetString("STORE_NAME"),
			SSLMode:    v.GetString("STORE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		SMTP: SMTPConfig{
			Host:               v.GetString("SMTP_HOST"),
			Port:               v.GetInt("SMTP_PORT"),
			User:               v.GetString("SMTP_USER"),
			Pass:               v.GetString("SMTP_PASS"),
			From:               v.GetString("SMTP_FROM"),
			SendTimeoutSeconds: v.GetInt("SMTP_SEND_TIMEOUT_SECONDS"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}
