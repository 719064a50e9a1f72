package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	codescribe "github.com/jmcoleman/codescribe-ai-sub006"
)

// outputJSON writes any value as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printGraphSummary formats a graph's headline numbers as readable text.
func printGraphSummary(w io.Writer, g *codescribe.DependencyGraph) {
	fmt.Fprintf(w, "Project: %s\n", g.ProjectName)
	fmt.Fprintf(w, "Graph ID: %s\n", g.ProjectID)
	if g.Branch != "" {
		fmt.Fprintf(w, "Branch: %s\n", g.Branch)
	}
	fmt.Fprintf(w, "Files: %d  Functions: %d  Classes: %d  Edges: %d\n",
		g.Stats.TotalFiles, g.Stats.TotalFunctions, g.Stats.TotalClasses, g.Stats.TotalEdges)
	fmt.Fprintf(w, "Avg complexity: %.1f\n", g.Stats.AvgComplexity)

	if len(g.Stats.Languages) > 0 {
		langs := make([]string, 0, len(g.Stats.Languages))
		for lang := range g.Stats.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		fmt.Fprintln(w, "Languages:")
		for _, lang := range langs {
			fmt.Fprintf(w, "  %s: %d files\n", lang, g.Stats.Languages[lang])
		}
	}
	fmt.Fprintf(w, "Expires: %s\n", g.ExpiresAt.Local().Format("2006-01-02 15:04"))
}

// printSummaries formats graph summaries as aligned columns.
func printSummaries(w io.Writer, summaries []codescribe.GraphSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROJECT ID\tNAME\tBRANCH\tFILES\tFUNCTIONS\tANALYZED")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ProjectID, s.ProjectName, s.Branch, s.FileCount, s.FunctionCount,
			s.AnalyzedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
