package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

var (
	ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrMissingDB    = errors.New("DATABASE_URL is required")
	ErrInvalidMode  = errors.New("invalid default search mode")
	ErrNoPlatforms  = errors.New("SEARCH_PLATFORMS cannot be empty")
)

type Config struct {
	Telegram  TelegramConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type TelegramConfig struct {
	Token string
	Debug bool
}

type DatabaseConfig struct {
	URL string
}

type LLMConfig struct {
	Provider   string // "openrouter" | "mock"
	OpenRouter OpenRouterConfig
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type BrowserConfig struct {
	Headless   bool
	Slots      int64
	NavTimeout time.Duration
}

type SearchConfig struct {
	Platforms      []string
	Mode           domain.ExecutionMode
	MaxPerPlatform int
	WorkerTimeout  time.Duration
	TopDeals       int
	CacheTTL       time.Duration
}

type LogConfig struct {
	Level string
}

type RateLimitConfig struct {
	SearchesPerMinute int
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
			Debug: getEnvBoolOrDefault("TELEGRAM_DEBUG", false),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "mock"),
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
				Timeout: time.Duration(getEnvIntOrDefault("OPENROUTER_TIMEOUT_SEC", 90)) * time.Second,
			},
		},
		Browser: BrowserConfig{
			Headless:   getEnvBoolOrDefault("BROWSER_HEADLESS", true),
			Slots:      int64(getEnvIntOrDefault("BROWSER_SLOTS", 3)),
			NavTimeout: time.Duration(getEnvIntOrDefault("BROWSER_NAV_TIMEOUT_SEC", 60)) * time.Second,
		},
		Search: SearchConfig{
			Platforms:      splitList(getEnvOrDefault("SEARCH_PLATFORMS", "jd,taobao,pdd")),
			Mode:           domain.ExecutionMode(getEnvOrDefault("SEARCH_MODE", "concurrent")),
			MaxPerPlatform: getEnvIntOrDefault("SEARCH_MAX_PER_PLATFORM", 10),
			WorkerTimeout:  time.Duration(getEnvIntOrDefault("SEARCH_WORKER_TIMEOUT_SEC", 120)) * time.Second,
			TopDeals:       getEnvIntOrDefault("SEARCH_TOP_DEALS", 5),
			CacheTTL:       time.Duration(getEnvIntOrDefault("SEARCH_CACHE_TTL_SEC", 900)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			SearchesPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 5),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if !c.Search.Mode.IsValid() {
		return ErrInvalidMode
	}
	if len(c.Search.Platforms) == 0 {
		return ErrNoPlatforms
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
