package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("TEACHBACK_CONFIG", filepath.Join(dir, "absent.yaml"))
	t.Setenv("TEACHBACK_LESSONS", "static")
	t.Setenv("TEACHBACK_CONCLUDE_DELAY", "0s")
	return filepath.Join(dir, "cli.db")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTopicsCommands(t *testing.T) {
	db := setupCLI(t)

	out, err := execute(t, "", "topics", "star", "articles", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Starred articles.")

	out, err = execute(t, "", "topics", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "articles")

	_, err = execute(t, "", "topics", "star", "klingon", "--db", db)
	assert.Error(t, err)
}

func TestLearnThenHistory(t *testing.T) {
	db := setupCLI(t)

	out, err := execute(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions yet.")

	script := strings.Join([]string{
		":next",
		"We use an before a vowel sound, like an apple or an hour today.",
		"We use a before a consonant sound, like a cat or a university.",
		"The is for something specific that both people already know.",
		"Plural and uncountable nouns in general take no article at all.",
		"So it is about sound and about whether the thing is specific.",
		":quit",
	}, "\n") + "\n"
	out, err = execute(t, script, "learn", "--topic", "articles", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "/ 100")

	out, err = execute(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.NotContains(t, out, "No sessions yet.")

	_, err = execute(t, "", "history", "clear", "--db", db)
	assert.Error(t, err)
	out, err = execute(t, "", "history", "clear", "--yes", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")
}

func TestLLMCommandsWithoutEvents(t *testing.T) {
	db := setupCLI(t)

	out, err := execute(t, "", "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No model requests recorded.")

	out, err = execute(t, "", "llm", "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No model usage recorded yet.")

	_, err = execute(t, "", "llm", "view", "abc", "--db", db)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "teachback (devel)\n", out)
}
