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
	App        AppConfig
	Logger     LoggerConfig
	AI         AIConfig
	Webhook    WebhookConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
	ProxyRules ProxyRulesConfig
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

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// AIConfig holds the completion provider endpoints and transport limits.
type AIConfig struct {
	AzureEndpoint      string
	AzureAPIKey        string
	AzureDeployment    string
	AzureAPIVersion    string
	OpenAIAPIKey       string
	OpenAIURL          string
	OpenAIModel        string
	ConnectTimeoutSec  int
	TimeoutSec         int
	FallbackTimeoutSec int
	RetryAfterSec      int
	CacheTTLSec        int
}

// WebhookConfig holds the ticket ingestion endpoint handed to clients.
type WebhookConfig struct {
	URL string
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

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig defines intake session token parameters.
type SessionConfig struct {
	Secret     string
	TTLMinutes int
	Required   bool
}

// RateLimitConfig bounds completion requests per client.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// ProxyRulesConfig points at an optional YAML phrase list for proxy detection.
type ProxyRulesConfig struct {
	Path string
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
			Name:                  getEnv("APP_NAME", "support-intake"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		AI: AIConfig{
			AzureEndpoint:      os.Getenv("AZURE_OPENAI_ENDPOINT"),
			AzureAPIKey:        os.Getenv("AZURE_OPENAI_API_KEY"),
			AzureDeployment:    getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4"),
			AzureAPIVersion:    getEnv("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
			OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
			OpenAIURL:          getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
			OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
			ConnectTimeoutSec:  getEnvAsInt("AI_CONNECT_TIMEOUT_SECONDS", 5),
			TimeoutSec:         getEnvAsInt("AI_TIMEOUT_SECONDS", 10),
			FallbackTimeoutSec: getEnvAsInt("AI_FALLBACK_TIMEOUT_SECONDS", 8),
			RetryAfterSec:      getEnvAsInt("AI_RETRY_AFTER_SECONDS", 30),
			CacheTTLSec:        getEnvAsInt("COMPLETION_CACHE_TTL_SECONDS", 300),
		},
		Webhook: WebhookConfig{
			URL: os.Getenv("WEBHOOK_URL"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Secret:     getEnv("INTAKE_SESSION_SECRET", "dev-secret"),
			TTLMinutes: getEnvAsInt("INTAKE_SESSION_TTL_MINUTES", 30),
			Required:   getEnvAsBool("INTAKE_REQUIRE_SESSION", false),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 20),
			Burst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		ProxyRules: ProxyRulesConfig{
			Path: os.Getenv("PROXY_RULES_FILE"),
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
	return seconds(a.RequestTimeoutSeconds)
}

// AzureConfigured reports whether both the alternate provider endpoint and key are set.
func (a AIConfig) AzureConfigured() bool {
	return a.AzureEndpoint != "" && a.AzureAPIKey != ""
}

// OpenAIConfigured reports whether the primary provider key is set.
func (a AIConfig) OpenAIConfigured() bool {
	return a.OpenAIAPIKey != ""
}

func (a AIConfig) ConnectTimeout() time.Duration  { return seconds(a.ConnectTimeoutSec) }
func (a AIConfig) Timeout() time.Duration         { return seconds(a.TimeoutSec) }
func (a AIConfig) FallbackTimeout() time.Duration { return seconds(a.FallbackTimeoutSec) }
func (a AIConfig) CacheTTL() time.Duration        { return seconds(a.CacheTTLSec) }

// TTL returns the session token lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
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
