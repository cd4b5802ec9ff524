package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type LLMConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	CircuitBreaker CircuitBreakerConfig
}

type CircuitBreakerConfig struct {
	Enabled      bool
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type StorageConfig struct {
	MaxFileSize int64
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type MetricsConfig struct {
	Enabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq))

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_api"),
		},
		LLM: LLMConfig{
			Provider:    provider,
			APIKey:      getEnv("LLM_API_KEY", providerAPIKey(provider)),
			BaseURL:     getEnv("LLM_BASE_URL", defaultBaseURL(provider)),
			Model:       getEnv("LLM_MODEL", defaultModel(provider)),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:      getEnvAsBool("CIRCUIT_BREAKER_ENABLED", false),
				MaxRequests:  uint32(getEnvAsInt("CIRCUIT_BREAKER_MAX_REQUESTS", 3)),
				Interval:     getEnvAsDuration("CIRCUIT_BREAKER_INTERVAL", "60s"),
				Timeout:      getEnvAsDuration("CIRCUIT_BREAKER_TIMEOUT", "30s"),
				MinRequests:  uint32(getEnvAsInt("CIRCUIT_BREAKER_MIN_REQUESTS", 5)),
				FailureRatio: getEnvAsFloat("CIRCUIT_BREAKER_FAILURE_RATIO", 0.6),
			},
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

// Validate reports configuration that would make every /analyze call fail.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing API key for provider %q", c.LLM.Provider)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0, 2], got %v", c.LLM.Temperature)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func providerAPIKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return getEnv("OPENAI_API_KEY", "")
	case ProviderGemini:
		return getEnv("GEMINI_API_KEY", "")
	default:
		return getEnv("GROQ_API_KEY", "")
	}
}

func defaultBaseURL(provider string) string {
	if provider == ProviderGroq {
		return "https://api.groq.com/openai/v1"
	}
	return ""
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "moonshotai/kimi-k2-instruct"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
