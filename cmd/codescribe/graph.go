package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	codescribe "github.com/jmcoleman/codescribe-ai-sub006"
)

var contextCmd = &cobra.Command{
	Use:   "context <project-id> <file>",
	Short: "Derive the AI context of one file from its stored graph",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		fc, err := engine.GetFileContext(context.Background(), args[0], cfg.User, args[1])
		if err != nil {
			return err
		}
		if fc == nil {
			return fmt.Errorf("no context: graph %s is missing or expired, or %s is not in it", args[0], args[1])
		}
		if cfg.Format == "json" {
			return outputJSON(fc)
		}
		fmt.Println(fc.ContextString)
		return nil
	},
}

var (
	flagDiagramType string
	flagFocus       string
	flagMaxNodes    int
)

var diagramCmd = &cobra.Command{
	Use:   "diagram <project-id>",
	Short: "Render a stored graph as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		g, err := engine.GetGraph(context.Background(), args[0], cfg.User)
		if err != nil {
			return err
		}
		out := codescribe.GenerateDiagram(g, codescribe.DiagramOptions{
			Type:      codescribe.DiagramType(flagDiagramType),
			FocusFile: flagFocus,
			MaxNodes:  flagMaxNodes,
		})
		if out == "" {
			return fmt.Errorf("no diagram: graph %s is missing or expired, or the focus file is not in it", args[0])
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	diagramCmd.Flags().StringVar(&flagDiagramType, "type", "architecture", "diagram type: architecture|dependencies|dataflow")
	diagramCmd.Flags().StringVar(&flagFocus, "focus", "", "limit a dependencies diagram to one file and its neighbors")
	diagramCmd.Flags().IntVar(&flagMaxNodes, "max-nodes", 0, "keep only the N most-connected nodes (0 = no limit)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored graphs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		summaries, err := engine.ListGraphs(context.Background(), cfg.User)
		if err != nil {
			return err
		}
		if cfg.Format == "json" {
			return outputJSON(summaries)
		}
		printSummaries(os.Stdout, summaries)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a stored graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		deleted, err := engine.DeleteGraph(context.Background(), args[0], cfg.User)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("no graph stored under project ID %s", args[0])
		}
		fmt.Fprintf(os.Stderr, "Deleted graph %s\n", args[0])
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Reclaim expired graphs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		n, err := engine.CleanupExpiredGraphs(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Removed %d expired graphs\n", n)
		return nil
	},
}
