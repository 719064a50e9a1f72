package codescribe

import (
	"context"
	"time"

	"github.com/jmcoleman/codescribe-ai-sub006/internal/store"
)

// Public type aliases for the internal graph model. These are Go type
// aliases (=) — identical to the internal types at compile time. External
// consumers use these names; no conversion is needed.

type DependencyGraph = store.DependencyGraph
type GraphNode = store.GraphNode
type GraphEdge = store.GraphEdge
type GraphStats = store.GraphStats
type GraphSummary = store.GraphSummary

// GraphTTL is how long a persisted graph stays readable after analysis.
const GraphTTL = 24 * time.Hour

// SourceFile is one file of a project snapshot. Path is relative to the
// project root; loading content is the caller's responsibility.
type SourceFile struct {
	Path    string
	Content []byte
}

// AnalyzeOptions carries optional per-analysis settings.
type AnalyzeOptions struct {
	// Branch labels the graph with the analyzed branch.
	Branch string
	// ProjectPath records where the snapshot came from.
	ProjectPath string
	// PersistentProjectID ties graphs of the same project together across
	// refreshes so callers can look them up without the generated ProjectID.
	PersistentProjectID string
}

// Store persists dependency graphs. Reads must treat expired graphs as
// absent; physical reclamation happens in CleanupExpired. Not-found is the
// nil graph, not an error — errors are reserved for infrastructure
// failures.
type Store interface {
	SaveGraph(ctx context.Context, g *DependencyGraph) error
	GraphByID(ctx context.Context, projectID, userID string) (*DependencyGraph, error)
	GraphByPersistentProjectID(ctx context.Context, persistentID, userID string) (*DependencyGraph, error)
	DeleteGraph(ctx context.Context, projectID, userID string) (bool, error)
	ListSummaries(ctx context.Context, userID string) ([]GraphSummary, error)
	CleanupExpired(ctx context.Context) (int, error)
}
