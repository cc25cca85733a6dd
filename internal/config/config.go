package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	AI       AIConfig
	SMTP     SMTPConfig
	Relay    RelayConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines manager authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// AIConfig configures the completion backend used by the responder.
type AIConfig struct {
	OllamaURL          string
	Model              string
	TimeoutSeconds     int
	MaxContextMessages int
}

// SMTPConfig configures escalation email delivery. The notifier is a
// no-op unless Username, Password and ManagerEmail are all set.
type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	ManagerEmail string
	FromName     string
	TLSMode      string // "starttls", "smtps" or "plain"
}

// RelayConfig points at the messaging relay process that pushes replies
// to end users.
type RelayConfig struct {
	URL             string
	TimeoutSeconds  int
	MaxAttempts     int
	BackoffBaseMsec int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 5)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		AI: AIConfig{
			OllamaURL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:              getEnv("AI_MODEL", "llama3.2:latest"),
			TimeoutSeconds:     getEnvAsInt("AI_RESPONSE_TIMEOUT_SECONDS", 30),
			MaxContextMessages: getEnvAsInt("AI_MAX_CONTEXT_MESSAGES", 20),
		},
		SMTP: SMTPConfig{
			Host:         getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Username:     os.Getenv("SMTP_USERNAME"),
			Password:     os.Getenv("SMTP_PASSWORD"),
			ManagerEmail: os.Getenv("MANAGER_EMAIL"),
			FromName:     getEnv("SMTP_FROM_NAME", "Sulpak AI HelpDesk"),
			TLSMode:      getEnv("SMTP_TLS_MODE", "starttls"),
		},
		Relay: RelayConfig{
			URL:             getEnv("RELAY_URL", "http://localhost:3002"),
			TimeoutSeconds:  getEnvAsInt("RELAY_TIMEOUT_SECONDS", 5),
			MaxAttempts:     getEnvAsInt("RELAY_MAX_ATTEMPTS", 3),
			BackoffBaseMsec: getEnvAsInt("RELAY_BACKOFF_BASE_MSEC", 1000),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the completion call timeout.
func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Configured reports whether the notifier has enough to send mail.
func (s SMTPConfig) Configured() bool {
	return s.Username != "" && s.Password != "" && s.ManagerEmail != ""
}

// Timeout returns the per-attempt relay call timeout.
func (r RelayConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// BackoffBase returns the base delay for relay retry backoff.
func (r RelayConfig) BackoffBase() time.Duration {
	if r.BackoffBaseMsec <= 0 {
		return time.Second
	}
	return time.Duration(r.BackoffBaseMsec) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
