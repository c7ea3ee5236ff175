package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-bot/internal/pkg/common"
)

// Deployable profiles.
const (
	ProfileManual  = "manual"
	ProfileYouTube = "youtube"
)

// Config is read once at startup.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Profile string `mapstructure:"profile"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// TelegramConfig configures the bot transport.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	PollTimeout    int    `mapstructure:"poll_timeout"`
	Concurrency    int    `mapstructure:"concurrency"`
	DebugTransport bool   `mapstructure:"debug_transport"`
}

// LLMConfig configures the chat-completion endpoint.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TranscriptConfig configures the transcript service.
type TranscriptConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig selects the remote store. An empty URL keeps recipes in process.
// Namespace defaults to the profile name.
type RedisConfig struct {
	URL       string `mapstructure:"url"`
	Namespace string `mapstructure:"namespace"`
}

// CacheConfig configures the completion cache.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// ServerConfig configures the ops HTTP server.
type ServerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app.env":                  "APP_ENV",
		"app.profile":              "APP_PROFILE",
		"telegram.token":           "TELEGRAM_BOT_TOKEN",
		"telegram.concurrency":     "BOT_CONCURRENCY",
		"llm.api_key":              "LLM_API_KEY",
		"llm.base_url":             "LLM_BASE_URL",
		"llm.model":                "LLM_MODEL",
		"llm.timeout":              "LLM_TIMEOUT",
		"transcript.api_key":       "TRANSCRIPT_API_KEY",
		"transcript.base_url":      "TRANSCRIPT_BASE_URL",
		"redis.url":                "REDIS_URL",
		"redis.namespace":          "REDIS_NAMESPACE",
		"cache.enabled":            "CACHE_ENABLED",
		"cache.ttl":                "CACHE_TTL",
		"cache.max_size":           "CACHE_MAX_SIZE",
		"server.enabled":           "SERVER_ENABLED",
		"server.port":              "SERVER_PORT",
		"log_level":                "LOG_LEVEL",
		"telegram.debug_transport": "TELEGRAM_DEBUG",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	fmt.Println("Loading configuration",
		"profile:", v.GetString("app.profile"),
		"llm_api_key:", common.MaskAPIKey(v.GetString("llm.api_key")),
		"llm_model:", v.GetString("llm.model"),
	)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// the two profiles store different record types and must not share keys
	if config.Redis.Namespace == "" {
		config.Redis.Namespace = config.App.Profile
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.profile", ProfileManual)
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-bot")

	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.concurrency", 10)
	v.SetDefault("telegram.debug_transport", false)

	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", "90s")

	v.SetDefault("transcript.base_url", "https://api.supadata.ai/v1")
	v.SetDefault("transcript.timeout", "60s")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	switch config.App.Profile {
	case ProfileManual, ProfileYouTube:
	default:
		return fmt.Errorf("unknown profile %q", config.App.Profile)
	}

	if config.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if config.LLM.BaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL is required")
	}
	if config.App.Profile == ProfileYouTube {
		if config.Transcript.APIKey == "" {
			return fmt.Errorf("TRANSCRIPT_API_KEY is required for the youtube profile")
		}
		if config.Transcript.BaseURL == "" {
			return fmt.Errorf("TRANSCRIPT_BASE_URL is required for the youtube profile")
		}
	}
	if config.Telegram.Concurrency <= 0 {
		return fmt.Errorf("invalid bot concurrency")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Server.Enabled && config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	return nil
}
