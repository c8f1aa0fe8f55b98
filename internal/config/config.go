package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultModel accepts a JSON response schema together with the search tool.
const DefaultModel = "gemini-3-pro-preview"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	Gemini    GeminiConfig
	Analytics AnalyticsConfig
	Gateway   GatewayConfig
}

type GeminiConfig struct {
	APIKey        string
	Model         string
	RPS           float64
	Burst         int
	RetryAttempts int
	RetryDelay    time.Duration
}

type AnalyticsConfig struct {
	Currency     string
	USDRate      float64
	Grounded     bool
	FetchTimeout time.Duration
	// FetchOnStart triggers the global overview as soon as the gateway boots.
	FetchOnStart bool
}

type GatewayConfig struct {
	SuggestCacheSize int
	AllowedOrigin    string
	ShutdownTimeout  time.Duration
}

// New returns a viper instance with every key defaulted and bound to the
// environment. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8081")
	v.SetDefault("app_env", "local")
	v.SetDefault("log_level", "info")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("api_key", "")
	v.SetDefault("gemini_model", DefaultModel)
	v.SetDefault("llm_rps", 0.0)
	v.SetDefault("llm_burst", 1)
	v.SetDefault("llm_retry_attempts", 1)
	v.SetDefault("llm_retry_delay", 300*time.Millisecond)

	v.SetDefault("analytics_currency", "INR")
	v.SetDefault("analytics_usd_rate", 84.0)
	v.SetDefault("analytics_grounded", true)
	v.SetDefault("analytics_fetch_timeout", 120*time.Second)
	v.SetDefault("analytics_fetch_on_start", true)

	v.SetDefault("suggest_cache_size", 256)
	v.SetDefault("cors_allowed_origin", "")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	return v
}

// Load reads .env (if present) and resolves the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()
	if v == nil {
		v = New()
	}

	cfg := &Config{
		Port:     normalizePort(v.GetString("port")),
		Env:      firstNonEmpty(strings.TrimSpace(v.GetString("app_env")), "local"),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		Gemini: GeminiConfig{
			APIKey:        firstNonEmpty(strings.TrimSpace(v.GetString("gemini_api_key")), strings.TrimSpace(v.GetString("api_key"))),
			Model:         firstNonEmpty(strings.TrimSpace(v.GetString("gemini_model")), DefaultModel),
			RPS:           v.GetFloat64("llm_rps"),
			Burst:         v.GetInt("llm_burst"),
			RetryAttempts: v.GetInt("llm_retry_attempts"),
			RetryDelay:    v.GetDuration("llm_retry_delay"),
		},
		Analytics: AnalyticsConfig{
			Currency:     strings.ToUpper(firstNonEmpty(strings.TrimSpace(v.GetString("analytics_currency")), "INR")),
			USDRate:      v.GetFloat64("analytics_usd_rate"),
			Grounded:     v.GetBool("analytics_grounded"),
			FetchTimeout: v.GetDuration("analytics_fetch_timeout"),
			FetchOnStart: v.GetBool("analytics_fetch_on_start"),
		},
		Gateway: GatewayConfig{
			SuggestCacheSize: v.GetInt("suggest_cache_size"),
			AllowedOrigin:    strings.TrimSpace(v.GetString("cors_allowed_origin")),
			ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analytics.USDRate <= 0 {
		return fmt.Errorf("config: analytics_usd_rate must be positive, got %v", c.Analytics.USDRate)
	}
	if c.Analytics.FetchTimeout <= 0 {
		return fmt.Errorf("config: analytics_fetch_timeout must be positive, got %v", c.Analytics.FetchTimeout)
	}
	if c.Gemini.RPS < 0 {
		return fmt.Errorf("config: llm_rps must not be negative, got %v", c.Gemini.RPS)
	}
	if c.Gateway.SuggestCacheSize <= 0 {
		c.Gateway.SuggestCacheSize = 256
	}
	if c.Gateway.ShutdownTimeout <= 0 {
		c.Gateway.ShutdownTimeout = 5 * time.Second
	}
	return nil
}

func normalizePort(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ":8081"
	}
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
