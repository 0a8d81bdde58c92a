package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName      string
	AppEnv       string
	AppPort      string
	LogLevel     string
	AllowOrigins []string
	DatabaseURL  string
	RedisURL     string
	NATSURL      string
	NATSSubject  string
	JWTSecret    string
	JWTIssuer    string
	AI           AIConfig
	Essay        EssayConfig
}

// AIConfig configures the chat-completion provider used for essay grading.
type AIConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// Enabled reports whether an AI provider is configured. Without one every evaluation uses the heuristic fallback.
func (c AIConfig) Enabled() bool {
	return c.Provider != "none" && c.APIKey != ""
}

// EssayConfig tunes the essay endpoints.
type EssayConfig struct {
	CacheTTL        time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CSSPREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	durations := map[string]time.Duration{}
	for _, key := range []string{"ai.timeout", "essay.cache_ttl", "essay.rate_limit_window"} {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", key, v.GetString(key))
		}
		durations[key] = parsed
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("ai.provider")))
	if provider != "openai" && provider != "none" {
		return Config{}, fmt.Errorf("unsupported ai provider %q", provider)
	}

	cfg := Config{
		AppName:      v.GetString("app.name"),
		AppEnv:       v.GetString("app.env"),
		AppPort:      v.GetString("app.port"),
		LogLevel:     strings.ToLower(v.GetString("log.level")),
		AllowOrigins: splitList(v.GetString("cors.allow_origins")),
		DatabaseURL:  v.GetString("database.url"),
		RedisURL:     v.GetString("redis.url"),
		NATSURL:      v.GetString("nats.url"),
		NATSSubject:  v.GetString("nats.subject"),
		JWTSecret:    v.GetString("jwt.secret"),
		JWTIssuer:    v.GetString("jwt.issuer"),
		AI: AIConfig{
			Provider:    provider,
			APIKey:      v.GetString("ai.api_key"),
			Model:       v.GetString("ai.model"),
			BaseURL:     v.GetString("ai.base_url"),
			Timeout:     durations["ai.timeout"],
			MaxTokens:   v.GetInt("ai.max_tokens"),
			Temperature: float32(v.GetFloat64("ai.temperature")),
			JSONMode:    v.GetBool("ai.json_mode"),
		},
		Essay: EssayConfig{
			CacheTTL:        durations["essay.cache_ttl"],
			RateLimit:       v.GetInt("essay.rate_limit"),
			RateLimitWindow: durations["essay.rate_limit_window"],
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 2048
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		return Config{}, fmt.Errorf("ai temperature must be between 0 and 2")
	}
	if cfg.Essay.RateLimit <= 0 {
		cfg.Essay.RateLimit = 10
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "CSS Prep API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("nats.subject", "essay.evaluated")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "45s")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.json_mode", true)
	v.SetDefault("essay.cache_ttl", "24h")
	v.SetDefault("essay.rate_limit", 10)
	v.SetDefault("essay.rate_limit_window", "1m")
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
