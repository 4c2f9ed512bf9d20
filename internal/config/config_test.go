package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a temp dir so the developer's own config
// and .env never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("TEACHBACK_CONFIG", filepath.Join(dir, "absent.yaml"))
	for _, k := range []string{
		"TEACHBACK_LEARNER", "TEACHBACK_LESSONS", "TEACHBACK_CONCLUDE_DELAY",
		"TEACHBACK_FEEDBACK_JITTER", "TEACHBACK_FEEDBACK_SEED", "TEACHBACK_SERVER_ADDR",
		"TEACHBACK_CORS_ORIGINS", "TEACHBACK_LOG_MODE", "TEACHBACK_LOG_LEVEL", "TEACHBACK_LOG_OUTPUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutFiles(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadLayers(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "teachback.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
learner: maria
dialogue:
  conclude_delay: 250ms
  policy:
    understood_after_turns: 6
    reexplain_below_turns: 2
    short_utterance: 40
    early_understand_turns: 3
    long_utterance: 80
feedback:
  jitter: 3
  seed: 42
server:
  addr: ":9090"
  cors_origins: ["https://app.example"]
logging:
  level: debug
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEACHBACK_LOG_MODE=prod\nTEACHBACK_SERVER_ADDR=:7070\n"), 0o644))
	t.Setenv("TEACHBACK_SERVER_ADDR", ":6060")
	t.Setenv("TEACHBACK_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "maria", cfg.Learner)
	assert.Equal(t, 250*time.Millisecond, cfg.Dialogue.ConcludeDelay)
	assert.Equal(t, 6, cfg.Dialogue.Policy.UnderstoodAfterTurns)
	assert.Equal(t, 40, cfg.Dialogue.Policy.ShortUtterance)
	assert.Equal(t, 3, cfg.Feedback.Jitter)
	assert.EqualValues(t, 42, cfg.Feedback.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "prod", cfg.Logging.Mode, ".env should fill unset variables")
	assert.Equal(t, ":6060", cfg.Server.Addr, "environment should win over .env")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, LessonsAuto, cfg.Lessons.Source)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty learner", func(c *Config) { c.Learner = " " }},
		{"bad policy", func(c *Config) { c.Dialogue.Policy.UnderstoodAfterTurns = 0 }},
		{"negative delay", func(c *Config) { c.Dialogue.ConcludeDelay = -time.Second }},
		{"jitter too large", func(c *Config) { c.Feedback.Jitter = 50 }},
		{"unknown lesson source", func(c *Config) { c.Lessons.Source = "books" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad log mode", func(c *Config) { c.Logging.Mode = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
