package codescribe

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// maxKeyFunctions caps the function list in a context string.
const maxKeyFunctions = 5

// FileContextStats summarizes a file's graph neighborhood.
type FileContextStats struct {
	DependentCount  int `json:"dependentCount"`
	DependencyCount int `json:"dependencyCount"`
	ExportCount     int `json:"exportCount"`
	FunctionCount   int `json:"functionCount"`
	ClassCount      int `json:"classCount"`
}

// FileContext is a derived, never-persisted view of one file inside a graph:
// who imports it, what it depends on, and a deterministic summary string
// suitable for injection into an AI prompt.
type FileContext struct {
	File         string           `json:"file"`
	Dependents   []string         `json:"dependents"`
	Dependencies []string         `json:"dependencies"`
	Stats        FileContextStats `json:"stats"`
	ContextString string          `json:"contextString"`
}

// BuildFileContext derives the context of one file from a materialized
// graph. Returns nil when the graph is missing or expired, or when the file
// is not a node in it. The output is a pure function of the graph: ordering
// follows edge insertion order, so identical graphs yield identical context
// strings.
func BuildFileContext(g *DependencyGraph, filePath string) *FileContext {
	if g == nil || g.Expired(time.Now()) {
		return nil
	}
	node := g.Node(filePath)
	if node == nil {
		return nil
	}

	fc := &FileContext{
		File:         filePath,
		Dependents:   []string{},
		Dependencies: []string{},
	}
	for _, edge := range g.Edges {
		if edge.To == filePath {
			fc.Dependents = append(fc.Dependents, edge.From)
		}
		if edge.From == filePath {
			fc.Dependencies = append(fc.Dependencies, edge.To)
		}
	}
	fc.Stats = FileContextStats{
		DependentCount:  len(fc.Dependents),
		DependencyCount: len(fc.Dependencies),
		ExportCount:     len(node.Exports),
		FunctionCount:   len(node.Functions),
		ClassCount:      len(node.Classes),
	}
	fc.ContextString = buildContextString(node, fc)
	return fc
}

// GetFileContext loads a stored graph and derives the file's context.
// Returns nil if the graph is absent/expired or the file is not in it.
func (e *Engine) GetFileContext(ctx context.Context, projectID, userID, filePath string) (*FileContext, error) {
	g, err := e.store.GraphByID(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("codescribe: load graph for context: %w", err)
	}
	return BuildFileContext(g, filePath), nil
}

// buildContextString renders the human/LLM-readable summary. Every section
// is emitted in a fixed order and only when it has content.
func buildContextString(node *GraphNode, fc *FileContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s (%s)\n", node.ID, node.Language)

	if len(node.Exports) > 0 {
		names := make([]string, 0, len(node.Exports))
		for _, exp := range node.Exports {
			names = append(names, exp.Name)
		}
		fmt.Fprintf(&b, "Exports: %s\n", strings.Join(names, ", "))
	}

	if len(node.Functions) > 0 {
		shown := node.Functions
		if len(shown) > maxKeyFunctions {
			shown = shown[:maxKeyFunctions]
		}
		parts := make([]string, 0, len(shown))
		for _, fn := range shown {
			sig := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(fn.Params, ", "))
			if fn.Async {
				sig += " [async]"
			}
			parts = append(parts, sig)
		}
		line := strings.Join(parts, ", ")
		if len(node.Functions) > maxKeyFunctions {
			line += fmt.Sprintf(" and %d more", len(node.Functions)-maxKeyFunctions)
		}
		fmt.Fprintf(&b, "Key functions: %s\n", line)
	}

	for _, cls := range node.Classes {
		if len(cls.Methods) == 0 {
			fmt.Fprintf(&b, "Class %s\n", cls.Name)
			continue
		}
		names := make([]string, 0, len(cls.Methods))
		for _, m := range cls.Methods {
			names = append(names, m.Name)
		}
		fmt.Fprintf(&b, "Class %s (methods: %s)\n", cls.Name, strings.Join(names, ", "))
	}

	if len(fc.Dependents) > 0 {
		fmt.Fprintf(&b, "Imported by: %s\n", strings.Join(fc.Dependents, ", "))
	}
	if len(fc.Dependencies) > 0 {
		fmt.Fprintf(&b, "Depends on: %s\n", strings.Join(fc.Dependencies, ", "))
	}

	fmt.Fprintf(&b, "Complexity: %s (cyclomatic %d)", node.Complexity, node.CyclomaticComplexity)
	return b.String()
}
