package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/abhisek/teachback/internal/config"
	"github.com/abhisek/teachback/internal/logger"
	"github.com/abhisek/teachback/internal/store"
)

// runEnv is what every command that touches learner data needs.
type runEnv struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

// openRuntime loads the configuration, builds the logger and opens the
// store. Callers must Close the result.
func openRuntime(cmd *cobra.Command) (*runEnv, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Mode:   cfg.Logging.Mode,
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st.SetLogger(log.With("component", "store"))
	log.Debug("store opened", "path", dbPath)

	return &runEnv{cfg: cfg, log: log, store: st}, nil
}

func (rt *runEnv) Close() {
	if err := rt.store.Close(); err != nil {
		rt.log.Warn("close store", "error", err)
	}
	rt.log.Sync()
}

// openStore opens only the store, for commands that just read or edit
// stored data.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// useColor reports whether f is a terminal and NO_COLOR is unset.
func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(f.Fd())
}
