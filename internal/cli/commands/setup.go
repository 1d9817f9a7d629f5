package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/macroscope/internal/cli/config"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/leapstack-labs/macroscope/internal/state"
	"github.com/spf13/cobra"
)

// stdinArg names standard input as a source argument.
const stdinArg = "-"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Resolver *resolve.Resolver
}

// NewCommandContext creates a CommandContext with a resolver and renderer
// built from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Resolver: resolve.New(
			resolve.WithMaxDepth(cfg.MaxDepth),
			resolve.WithMaxExpansions(cfg.MaxExpansions),
			resolve.WithMaxTokens(cfg.MaxTokens),
			resolve.WithLogger(logger),
		),
	}
}

// OpenStore opens and migrates the history database.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore() (state.Store, func(), error) {
	return openStore(c.Cfg.StatePath, c.Logger)
}

// Record saves a run in the history database when history is enabled.
// Failures are logged, not returned: history never fails a command.
func (c *CommandContext) Record(ctx context.Context, sourceName, source string, recursive bool, res *resolve.Result) {
	if !c.Cfg.History {
		return
	}
	store, cleanup, err := c.OpenStore()
	if err != nil {
		c.Logger.Warn("history disabled for this run", "error", err)
		return
	}
	defer cleanup()

	run, err := state.NewRun(sourceName, source, recursive, c.Resolver.MaxDepth(), res)
	if err != nil {
		c.Logger.Warn("failed to build run", "error", err)
		return
	}
	if err := store.SaveRun(ctx, run); err != nil {
		c.Logger.Warn("failed to save run", "error", err)
		return
	}
	c.Logger.Debug("run recorded", "id", run.ID)
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{
			MaxDepth:     config.DefaultMaxDepth,
			OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
			StatePath:    getEnvOrDefault(config.EnvPrefix+"STATE_PATH", config.DefaultStateFile),
			Verbose:      os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		}
	}
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func openStore(statePath string, logger *slog.Logger) (state.Store, func(), error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(statePath)
	if statePath != ":memory:" && stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(statePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return store, func() { _ = store.Close() }, nil
}

// readSource reads the document named by args: a file path, "-" for
// stdin, or stdin when no argument is given. The returned name is "-"
// for stdin.
func readSource(cmd *cobra.Command, args []string) (name, text string, err error) {
	if len(args) == 0 || args[0] == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return stdinArg, string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}
