package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	codescribe "github.com/jmcoleman/codescribe-ai-sub006"
)

var (
	flagName      string
	flagBranch    string
	flagProjectID string
	flagRefresh   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project directory into a dependency graph",
	Long:  "Parses every source file under the directory, resolves imports into a dependency graph, and persists it. Files matched by .gitignore are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagName, "name", "", "project name (default: directory name)")
	analyzeCmd.Flags().StringVar(&flagBranch, "branch", "", "branch label stored with the graph")
	analyzeCmd.Flags().StringVar(&flagProjectID, "project-id", "", "persistent project ID for cross-refresh lookup")
	analyzeCmd.Flags().StringVar(&flagRefresh, "refresh", "", "re-analyze the graph with this project ID instead of creating a new one")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", abs)
	}

	files, err := collectFiles(abs)
	if err != nil {
		return fmt.Errorf("collecting files: %w", err)
	}

	engine, err := openEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()

	var g *codescribe.DependencyGraph
	if flagRefresh != "" {
		g, err = engine.RefreshGraph(ctx, flagRefresh, cfg.User, files)
		if err != nil {
			return fmt.Errorf("refreshing: %w", err)
		}
		if g == nil {
			return fmt.Errorf("no graph stored under project ID %s", flagRefresh)
		}
	} else {
		name := flagName
		if name == "" {
			name = filepath.Base(abs)
		}
		g, err = engine.AnalyzeProject(ctx, cfg.User, name, files, codescribe.AnalyzeOptions{
			Branch:              flagBranch,
			ProjectPath:         abs,
			PersistentProjectID: flagProjectID,
		})
		if err != nil {
			return fmt.Errorf("analyzing: %w", err)
		}
	}

	if cfg.Format == "json" {
		return outputJSON(g)
	}

	fmt.Fprintf(os.Stderr, "Analyzed %d files in %s\n",
		g.Stats.TotalFiles, time.Since(start).Round(time.Millisecond))
	printGraphSummary(os.Stdout, g)
	return nil
}
