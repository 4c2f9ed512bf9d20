package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the model backend.
type Config struct {
	Provider string

	Anthropic  BackendConfig
	OpenAI     BackendConfig
	Gemini     BackendConfig
	OpenRouter BackendConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// BackendConfig is the per-backend credential and model choice. BaseURL is
// honoured by the OpenAI-compatible backends.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults: Anthropic with small fast models.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  BackendConfig{Model: "claude-haiku"},
		OpenAI:     BackendConfig{Model: "gpt-4o-mini"},
		Gemini:     BackendConfig{Model: "gemini-flash"},
		OpenRouter: BackendConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

type envBinding struct {
	name string
	set  func(c *Config, v string)
}

func bindString(dst func(c *Config) *string) func(*Config, string) {
	return func(c *Config, v string) { *dst(c) = v }
}

var envBindings = []envBinding{
	{"TEACHBACK_LLM_PROVIDER", bindString(func(c *Config) *string { return &c.Provider })},
	{"TEACHBACK_ANTHROPIC_API_KEY", bindString(func(c *Config) *string { return &c.Anthropic.APIKey })},
	{"TEACHBACK_ANTHROPIC_MODEL", bindString(func(c *Config) *string { return &c.Anthropic.Model })},
	{"TEACHBACK_OPENAI_API_KEY", bindString(func(c *Config) *string { return &c.OpenAI.APIKey })},
	{"TEACHBACK_OPENAI_MODEL", bindString(func(c *Config) *string { return &c.OpenAI.Model })},
	{"TEACHBACK_OPENAI_BASE_URL", bindString(func(c *Config) *string { return &c.OpenAI.BaseURL })},
	{"TEACHBACK_GEMINI_API_KEY", bindString(func(c *Config) *string { return &c.Gemini.APIKey })},
	{"TEACHBACK_GEMINI_MODEL", bindString(func(c *Config) *string { return &c.Gemini.Model })},
	{"TEACHBACK_OPENROUTER_API_KEY", bindString(func(c *Config) *string { return &c.OpenRouter.APIKey })},
	{"TEACHBACK_OPENROUTER_MODEL", bindString(func(c *Config) *string { return &c.OpenRouter.Model })},
	{"TEACHBACK_LLM_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
	{"TEACHBACK_LLM_MAX_ATTEMPTS", func(c *Config, v string) {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retry.MaxAttempts = n
		}
	}},
}

// ConfigFromEnv applies TEACHBACK_* variables over DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			b.set(&cfg, v)
		}
	}
	return cfg
}

// discoveryOrder lists the vendor key variables checked by DiscoverConfig.
var discoveryOrder = []struct {
	env      string
	provider string
	backend  func(c *Config) *BackendConfig
}{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config) *BackendConfig { return &c.Gemini }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config) *BackendConfig { return &c.OpenAI }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config) *BackendConfig { return &c.Anthropic }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config) *BackendConfig { return &c.OpenRouter }},
}

// DiscoverConfig picks the first backend whose vendor API key variable is
// set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.provider
			d.backend(&cfg).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Backend returns the settings of the selected provider.
func (c Config) Backend() (BackendConfig, error) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, nil
	case ProviderOpenAI:
		return c.OpenAI, nil
	case ProviderGemini:
		return c.Gemini, nil
	case ProviderOpenRouter:
		return c.OpenRouter, nil
	case ProviderMock:
		return BackendConfig{}, nil
	}
	return BackendConfig{}, fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	b, err := c.Backend()
	if err != nil {
		return err
	}
	if c.Provider != ProviderMock && b.APIKey == "" {
		return fmt.Errorf("TEACHBACK_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
