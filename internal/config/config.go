package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
)

// Config is the application configuration. LLM credentials are not part of
// it; they come from the environment through llm.ConfigFromEnv.
type Config struct {
	Learner  string          `yaml:"learner"`
	Dialogue DialogueConfig  `yaml:"dialogue"`
	Feedback feedback.Config `yaml:"feedback"`
	Lessons  LessonsConfig   `yaml:"lessons"`
	Server   ServerConfig    `yaml:"server"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// DialogueConfig tunes the simulated student.
type DialogueConfig struct {
	Policy        dialogue.Policy `yaml:"policy"`
	ConcludeDelay time.Duration   `yaml:"conclude_delay"`
}

// Lesson sources.
const (
	LessonsAuto   = "auto"
	LessonsStatic = "static"
	LessonsLLM    = "llm"
)

// LessonsConfig picks where lessons come from. "auto" uses a language
// model when one is configured and the built-in lessons otherwise.
type LessonsConfig struct {
	Source string `yaml:"source"`
}

// ServerConfig configures `teachback serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig is passed to logger.New.
type LoggingConfig struct {
	Mode   string `yaml:"mode"`
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Learner: "default",
		Dialogue: DialogueConfig{
			Policy:        dialogue.DefaultPolicy(),
			ConcludeDelay: 1500 * time.Millisecond,
		},
		Feedback: feedback.DefaultConfig(),
		Lessons:  LessonsConfig{Source: LessonsAuto},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			CORSOrigins:  []string{"http://localhost:3000"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{Mode: "dev", Level: "warn"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path,
// then a .env file in the working directory, then TEACHBACK_* variables.
// An empty path means DefaultPath, which may be absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultPath is TEACHBACK_CONFIG, else config.yaml under the user config
// directory. It returns "" when neither can be determined.
func DefaultPath() string {
	if p := os.Getenv("TEACHBACK_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "teachback", "config.yaml")
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TEACHBACK_LEARNER"); v != "" {
		c.Learner = v
	}
	if v := os.Getenv("TEACHBACK_LESSONS"); v != "" {
		c.Lessons.Source = v
	}
	if v := os.Getenv("TEACHBACK_CONCLUDE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Dialogue.ConcludeDelay = d
		}
	}
	if v := os.Getenv("TEACHBACK_FEEDBACK_JITTER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Feedback.Jitter = n
		}
	}
	if v := os.Getenv("TEACHBACK_FEEDBACK_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Feedback.Seed = n
		}
	}
	if v := os.Getenv("TEACHBACK_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TEACHBACK_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("TEACHBACK_LOG_MODE"); v != "" {
		c.Logging.Mode = v
	}
	if v := os.Getenv("TEACHBACK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TEACHBACK_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Learner) == "" {
		return errors.New("learner must not be empty")
	}
	if err := c.Dialogue.Policy.Validate(); err != nil {
		return fmt.Errorf("dialogue policy: %w", err)
	}
	if c.Dialogue.ConcludeDelay < 0 {
		return errors.New("dialogue conclude_delay must not be negative")
	}
	if c.Feedback.Jitter < 0 || c.Feedback.Jitter > 20 {
		return fmt.Errorf("feedback jitter must be between 0 and 20, got %d", c.Feedback.Jitter)
	}
	switch c.Lessons.Source {
	case LessonsAuto, LessonsStatic, LessonsLLM:
	default:
		return fmt.Errorf("lessons source must be auto, static or llm, got %q", c.Lessons.Source)
	}
	if c.Server.Addr == "" {
		return errors.New("server addr must not be empty")
	}
	switch c.Logging.Mode {
	case "dev", "prod":
	default:
		return fmt.Errorf("logging mode must be dev or prod, got %q", c.Logging.Mode)
	}
	return nil
}
