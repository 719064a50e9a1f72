package store

import (
	"time"

	"github.com/jmcoleman/codescribe-ai-sub006/internal/analyzer"
)

// Graph domain types. These are aliased into the root package API.

// GraphNode is one source file in the dependency graph. The embedded
// ParseResult carries the per-file facts; counts are filled during graph
// assembly and never mutated afterwards.
type GraphNode struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	analyzer.ParseResult
	DependentCount  int `json:"dependentCount"`
	DependencyCount int `json:"dependencyCount"`
}

// GraphEdge is a dependency between two files. Multiple symbols imported
// between the same pair collapse into one edge; Specifiers lists the
// imported symbol names in first-seen order.
type GraphEdge struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Specifiers []string `json:"specifiers"`
}

// GraphStats aggregates project-level counts.
type GraphStats struct {
	TotalFiles     int            `json:"totalFiles"`
	TotalFunctions int            `json:"totalFunctions"`
	TotalClasses   int            `json:"totalClasses"`
	TotalImports   int            `json:"totalImports"`
	TotalExports   int            `json:"totalExports"`
	TotalEdges     int            `json:"totalEdges"`
	AvgComplexity  float64        `json:"avgComplexity"`
	Languages      map[string]int `json:"languages"`
}

// DependencyGraph is the whole-project analysis result. Every edge's From
// and To reference an existing node ID; edges are never created for
// unresolved or external imports.
type DependencyGraph struct {
	ProjectID           string      `json:"projectId"`
	PersistentProjectID string      `json:"persistentProjectId,omitempty"`
	UserID              string      `json:"userId"`
	ProjectName         string      `json:"projectName"`
	Branch              string      `json:"branch,omitempty"`
	ProjectPath         string      `json:"projectPath,omitempty"`
	Nodes               []GraphNode `json:"nodes"`
	Edges               []GraphEdge `json:"edges"`
	Stats               GraphStats  `json:"stats"`
	AnalyzedAt          time.Time   `json:"analyzedAt"`
	ExpiresAt           time.Time   `json:"expiresAt"`
}

// Node returns the node with the given ID, or nil if absent.
func (g *DependencyGraph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Expired reports whether the graph's TTL has passed at the given time.
func (g *DependencyGraph) Expired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}

// GraphSummary is the listing row for a stored graph.
type GraphSummary struct {
	ProjectID     string    `json:"projectId"`
	ProjectName   string    `json:"projectName"`
	Branch        string    `json:"branch,omitempty"`
	FileCount     int       `json:"fileCount"`
	FunctionCount int       `json:"functionCount"`
	AnalyzedAt    time.Time `json:"analyzedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
