package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	codescribe "github.com/jmcoleman/codescribe-ai-sub006"
	"github.com/jmcoleman/codescribe-ai-sub006/internal/config"
)

var (
	flagDB      string
	flagUser    string
	flagFormat  string
	flagVerbose bool
)

// cfg is resolved once in PersistentPreRunE and read by every command.
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codescribe",
	Short:         "Dependency graph analysis for AI documentation",
	Long:          "Codescribe parses JavaScript, TypeScript, and Python projects into a persisted dependency graph and derives per-file context and Mermaid diagrams from it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if err := validateFormat(cfg.Format); err != nil {
			return err
		}

		level := slog.LevelWarn
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "codescribe.db", "graph database path")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "local", "user ID graphs are stored under")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(cleanupCmd)
}

// openEngine builds an Engine against the configured database.
func openEngine() (*codescribe.Engine, error) {
	engine, err := codescribe.New(cfg.DB, codescribe.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.DB, err)
	}
	return engine, nil
}

func validateFormat(format string) error {
	if format == "json" || format == "text" {
		return nil
	}
	return fmt.Errorf("invalid format %q: must be json or text", format)
}
