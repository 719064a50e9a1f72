package codescribe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmcoleman/codescribe-ai-sub006/internal/analyzer"
	"github.com/jmcoleman/codescribe-ai-sub006/internal/resolver"
	"github.com/jmcoleman/codescribe-ai-sub006/internal/store"
)

// Engine orchestrates the analysis pipeline: per-file parsing, import
// resolution, graph assembly, and persistence. One Engine may serve many
// projects; graph construction happens on private state and only finished
// graphs reach the store, so concurrent readers never observe a partially
// built graph.
type Engine struct {
	store       Store
	logger      *slog.Logger
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-file parse diagnostics and
// unresolved-import events. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithStore replaces the SQLite store with a custom Store implementation.
// When set, the dbPath argument to New is ignored.
func WithStore(s Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithParallel controls parallel per-file parsing. When true (default),
// AnalyzeProject parses files with a worker pool; assembly and persistence
// stay single-writer either way.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// New creates an Engine backed by a SQLite database at dbPath, creating the
// schema if needed. Use WithStore to supply a different backend.
func New(dbPath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:      slog.Default(),
		useParallel: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("codescribe: open store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("codescribe: migrate: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// Close releases the Engine's store resources.
func (e *Engine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// graphIdentity carries the identifying fields a graph is built under.
// AnalyzeProject generates a fresh ProjectID; RefreshGraph reuses the
// stored one.
type graphIdentity struct {
	ProjectID           string
	PersistentProjectID string
	UserID              string
	ProjectName         string
	Branch              string
	ProjectPath         string
}

// AnalyzeProject parses every file in the snapshot, resolves imports into
// edges, and persists the resulting graph. A single file that cannot be
// parsed degrades to a near-empty node; it never aborts the analysis.
// Cancellation is honored between per-file parses and before the final
// persistence step — a cancelled analysis persists nothing.
func (e *Engine) AnalyzeProject(ctx context.Context, userID, projectName string, files []SourceFile, opts AnalyzeOptions) (*DependencyGraph, error) {
	id := graphIdentity{
		ProjectID:           uuid.NewString(),
		PersistentProjectID: opts.PersistentProjectID,
		UserID:              userID,
		ProjectName:         projectName,
		Branch:              opts.Branch,
		ProjectPath:         opts.ProjectPath,
	}
	return e.buildAndSave(ctx, id, files)
}

// RefreshGraph re-analyzes a project and overwrites its stored graph,
// keeping the original identity (project ID, persistent ID, name, branch,
// path). Returns nil if no graph currently exists for that id/user.
func (e *Engine) RefreshGraph(ctx context.Context, projectID, userID string, files []SourceFile) (*DependencyGraph, error) {
	existing, err := e.store.GraphByID(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("codescribe: load graph for refresh: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	id := graphIdentity{
		ProjectID:           existing.ProjectID,
		PersistentProjectID: existing.PersistentProjectID,
		UserID:              existing.UserID,
		ProjectName:         existing.ProjectName,
		Branch:              existing.Branch,
		ProjectPath:         existing.ProjectPath,
	}
	return e.buildAndSave(ctx, id, files)
}

// GetGraph returns a stored graph, or nil if it is absent or expired.
func (e *Engine) GetGraph(ctx context.Context, projectID, userID string) (*DependencyGraph, error) {
	return e.store.GraphByID(ctx, projectID, userID)
}

// GetGraphByPersistentID returns the graph stored under a caller-supplied
// persistent project ID, or nil if absent or expired.
func (e *Engine) GetGraphByPersistentID(ctx context.Context, persistentID, userID string) (*DependencyGraph, error) {
	return e.store.GraphByPersistentProjectID(ctx, persistentID, userID)
}

// DeleteGraph removes a stored graph. Returns false if nothing was stored
// under that id/user.
func (e *Engine) DeleteGraph(ctx context.Context, projectID, userID string) (bool, error) {
	return e.store.DeleteGraph(ctx, projectID, userID)
}

// ListGraphs returns summaries of the user's unexpired graphs.
func (e *Engine) ListGraphs(ctx context.Context, userID string) ([]GraphSummary, error) {
	return e.store.ListSummaries(ctx, userID)
}

// CleanupExpiredGraphs physically reclaims expired graphs and returns the
// number removed. Expired graphs are already invisible to reads; this only
// frees storage.
func (e *Engine) CleanupExpiredGraphs(ctx context.Context) (int, error) {
	return e.store.CleanupExpired(ctx)
}

// buildAndSave runs the full pipeline for one snapshot and persists the
// result in one logical step.
func (e *Engine) buildAndSave(ctx context.Context, id graphIdentity, files []SourceFile) (*DependencyGraph, error) {
	results, err := e.parseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	g := e.assembleGraph(id, files, results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.store.SaveGraph(ctx, g); err != nil {
		return nil, fmt.Errorf("codescribe: save graph: %w", err)
	}
	return g, nil
}

// relPath normalizes a snapshot path into a node ID: forward slashes,
// no leading "./" or "/".
func relPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

// assembleGraph builds nodes in snapshot order, resolves each import into at
// most one edge per file pair, then fills per-node counts and project stats.
func (e *Engine) assembleGraph(id graphIdentity, files []SourceFile, results []*analyzer.ParseResult) *DependencyGraph {
	now := time.Now().UTC()
	g := &DependencyGraph{
		ProjectID:           id.ProjectID,
		PersistentProjectID: id.PersistentProjectID,
		UserID:              id.UserID,
		ProjectName:         id.ProjectName,
		Branch:              id.Branch,
		ProjectPath:         id.ProjectPath,
		Nodes:               make([]GraphNode, 0, len(files)),
		Edges:               []GraphEdge{},
		AnalyzedAt:          now,
		ExpiresAt:           now.Add(GraphTTL),
	}

	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[relPath(f.Path)] = true
	}

	for i, f := range files {
		p := relPath(f.Path)
		g.Nodes = append(g.Nodes, GraphNode{
			ID:          p,
			FileName:    path.Base(p),
			ParseResult: *normalizeResult(results[i]),
		})
	}

	// Merge imports into one edge per (from, to) pair, in first-seen order.
	edgeIndex := map[[2]string]int{}
	for i := range g.Nodes {
		from := g.Nodes[i].ID
		for _, imp := range g.Nodes[i].Imports {
			to := resolver.Resolve(imp.Source, from, fileSet)
			if to == "" {
				e.logger.Debug("import not resolved to a project file",
					"file", from, "specifier", imp.Source)
				continue
			}
			key := [2]string{from, to}
			idx, ok := edgeIndex[key]
			if !ok {
				idx = len(g.Edges)
				edgeIndex[key] = idx
				g.Edges = append(g.Edges, GraphEdge{From: from, To: to, Specifiers: []string{}})
			}
			g.Edges[idx].Specifiers = mergeSpecifiers(g.Edges[idx].Specifiers, imp.Specifiers)
		}
	}

	// Counts after all edges exist: one per unique edge, not per symbol.
	byID := make(map[string]*GraphNode, len(g.Nodes))
	for i := range g.Nodes {
		byID[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for _, edge := range g.Edges {
		byID[edge.From].DependencyCount++
		byID[edge.To].DependentCount++
	}

	g.Stats = computeStats(g)
	return g
}

// normalizeResult defaults any missing parse collections so downstream
// consumers never branch on nil.
func normalizeResult(r *analyzer.ParseResult) *analyzer.ParseResult {
	if r == nil {
		r = &analyzer.ParseResult{Language: "unknown", CyclomaticComplexity: 1, Complexity: analyzer.ComplexitySimple}
	}
	if r.Functions == nil {
		r.Functions = []analyzer.Function{}
	}
	for i := range r.Functions {
		if r.Functions[i].Params == nil {
			r.Functions[i].Params = []string{}
		}
	}
	if r.Classes == nil {
		r.Classes = []analyzer.Class{}
	}
	for i := range r.Classes {
		if r.Classes[i].Methods == nil {
			r.Classes[i].Methods = []analyzer.Method{}
		}
	}
	if r.Variables == nil {
		r.Variables = []string{}
	}
	if r.Imports == nil {
		r.Imports = []analyzer.Import{}
	}
	if r.Exports == nil {
		r.Exports = []analyzer.Export{}
	}
	return r
}

// mergeSpecifiers appends the names of imported symbols not already present,
// preserving first-seen order so edge content is deterministic.
func mergeSpecifiers(existing []string, specs []analyzer.ImportSpecifier) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, spec := range specs {
		name := spec.Name
		if name == "" {
			continue // side-effect imports contribute no symbol names
		}
		if !seen[name] {
			seen[name] = true
			existing = append(existing, name)
		}
	}
	return existing
}

// computeStats aggregates project-level counts from the assembled graph.
func computeStats(g *DependencyGraph) GraphStats {
	stats := GraphStats{
		TotalFiles: len(g.Nodes),
		TotalEdges: len(g.Edges),
		Languages:  map[string]int{},
	}
	totalComplexity := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		stats.TotalFunctions += len(n.Functions)
		stats.TotalClasses += len(n.Classes)
		stats.TotalImports += len(n.Imports)
		stats.TotalExports += len(n.Exports)
		stats.Languages[n.Language]++
		totalComplexity += n.CyclomaticComplexity
	}
	if len(g.Nodes) > 0 {
		stats.AvgComplexity = float64(totalComplexity) / float64(len(g.Nodes))
	}
	return stats
}
