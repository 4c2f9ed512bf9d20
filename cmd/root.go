package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/teachback/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "teachback",
	Short: "Learn English grammar by teaching it back",
	Long: "teachback: read a short lesson, explain the topic to a simulated student, " +
		"answer a few questions and get scored feedback on your explanation.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd, learnOptions{resume: true})
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TEACHBACK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides TEACHBACK_CONFIG env var)")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TEACHBACK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
