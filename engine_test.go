package codescribe

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func src(path, content string) SourceFile {
	return SourceFile{Path: path, Content: []byte(content)}
}

// =============================================================================
// AnalyzeProject
// =============================================================================

func TestAnalyzeProject_SingleFileNoEdges(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo",
		[]SourceFile{src("app.js", "const x = 1;")}, AnalyzeOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, g.ProjectID)
	assert.Equal(t, "u1", g.UserID)
	assert.Equal(t, "demo", g.ProjectName)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "app.js", g.Nodes[0].ID)
	assert.Equal(t, "javascript", g.Nodes[0].Language)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 1, g.Stats.TotalFiles)
	assert.Zero(t, g.Stats.TotalEdges)
}

func TestAnalyzeProject_ResolvedImportBecomesEdge(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo", []SourceFile{
		src("a.js", "import { helper } from './b';\nhelper();"),
		src("b.js", "export function helper() {}"),
	}, AnalyzeOptions{})
	require.NoError(t, err)

	require.Len(t, g.Edges, 1)
	edge := g.Edges[0]
	assert.Equal(t, "a.js", edge.From)
	assert.Equal(t, "b.js", edge.To)
	assert.Equal(t, []string{"helper"}, edge.Specifiers)

	a := g.Node("a.js")
	b := g.Node("b.js")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, 1, a.DependencyCount)
	assert.Zero(t, a.DependentCount)
	assert.Equal(t, 1, b.DependentCount)
	assert.Zero(t, b.DependencyCount)
}

func TestAnalyzeProject_MultipleImportsCollapseToOneEdge(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo", []SourceFile{
		src("a.js", "import { x } from './b';\nimport { y } from './b.js';"),
		src("b.js", "export const x = 1;\nexport const y = 2;"),
	}, AnalyzeOptions{})
	require.NoError(t, err)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, []string{"x", "y"}, g.Edges[0].Specifiers)
	assert.Equal(t, 1, g.Node("a.js").DependencyCount, "one count per unique edge")
	assert.Equal(t, 1, g.Node("b.js").DependentCount)
}

func TestAnalyzeProject_BareImportsNeverProduceEdges(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo", []SourceFile{
		src("react.js", "export default {};"),
		src("app.js", "import React from 'react';"),
	}, AnalyzeOptions{})
	require.NoError(t, err)

	assert.Empty(t, g.Edges)
	require.Len(t, g.Node("app.js").Imports, 1, "the import is still recorded on the node")
}

func TestAnalyzeProject_StatsAggregation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo", []SourceFile{
		src("a.js", "export function one() {}\nexport function two() {}"),
		src("b.py", "class Thing:\n    def go(self):\n        pass\n"),
	}, AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, g.Stats.TotalFiles)
	assert.Equal(t, 2, g.Stats.TotalFunctions)
	assert.Equal(t, 1, g.Stats.TotalClasses)
	assert.Equal(t, 2, g.Stats.TotalExports)
	assert.Equal(t, map[string]int{"javascript": 1, "python": 1}, g.Stats.Languages)
	assert.Greater(t, g.Stats.AvgComplexity, 0.0)
}

func TestAnalyzeProject_TTL(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	before := time.Now().UTC()
	g, err := e.AnalyzeProject(context.Background(), "u1", "demo",
		[]SourceFile{src("a.js", "")}, AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, g.AnalyzedAt.Add(GraphTTL), g.ExpiresAt)
	assert.False(t, g.AnalyzedAt.Before(before.Truncate(time.Second)))
}

func TestAnalyzeProject_OptionsCarriedOntoGraph(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo",
		[]SourceFile{src("a.js", "")}, AnalyzeOptions{
			Branch:              "main",
			ProjectPath:         "/repos/demo",
			PersistentProjectID: "repo-7",
		})
	require.NoError(t, err)

	assert.Equal(t, "main", g.Branch)
	assert.Equal(t, "/repos/demo", g.ProjectPath)
	assert.Equal(t, "repo-7", g.PersistentProjectID)

	loaded, err := e.GetGraphByPersistentID(context.Background(), "repo-7", "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, g.ProjectID, loaded.ProjectID)
}

func TestAnalyzeProject_PathNormalization(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.AnalyzeProject(context.Background(), "u1", "demo", []SourceFile{
		src("./src/app.js", "import './util';"),
		src("src\\util.js", "export const u = 1;"),
	}, AnalyzeOptions{})
	require.NoError(t, err)

	require.NotNil(t, g.Node("src/app.js"))
	require.NotNil(t, g.Node("src/util.js"))
	require.Len(t, g.Edges, 1)
}

func TestAnalyzeProject_CancelledContextPersistsNothing(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := e.AnalyzeProject(ctx, "u1", "demo",
		[]SourceFile{src("a.js", "const x = 1;")}, AnalyzeOptions{})
	require.Error(t, err)
	assert.Nil(t, g)

	summaries, err := e.ListGraphs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAnalyzeProject_SerialMatchesParallel(t *testing.T) {
	t.Parallel()
	files := []SourceFile{
		src("a.js", "import { b } from './b';\nexport function fa() {}"),
		src("b.js", "export function b() { return 1 < 2 ? 1 : 2; }"),
		src("c.js", "import './a';"),
	}

	run := func(parallel bool) *DependencyGraph {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		e, err := New(dbPath, WithParallel(parallel))
		require.NoError(t, err)
		defer e.Close()
		g, err := e.AnalyzeProject(context.Background(), "u1", "demo", files, AnalyzeOptions{})
		require.NoError(t, err)
		return g
	}

	serial := run(false)
	parallel := run(true)

	assert.Equal(t, serial.Nodes[0].ParseResult, parallel.Nodes[0].ParseResult)
	assert.Equal(t, serial.Edges, parallel.Edges)
	assert.Equal(t, serial.Stats, parallel.Stats)
}

// =============================================================================
// RefreshGraph and lifecycle
// =============================================================================

func TestRefreshGraph_KeepsIdentity(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	g, err := e.AnalyzeProject(ctx, "u1", "demo",
		[]SourceFile{src("a.js", "const x = 1;")}, AnalyzeOptions{Branch: "main", PersistentProjectID: "repo-7"})
	require.NoError(t, err)

	refreshed, err := e.RefreshGraph(ctx, g.ProjectID, "u1", []SourceFile{
		src("a.js", "const x = 1;"),
		src("b.js", "const y = 2;"),
	})
	require.NoError(t, err)
	require.NotNil(t, refreshed)

	assert.Equal(t, g.ProjectID, refreshed.ProjectID)
	assert.Equal(t, "main", refreshed.Branch)
	assert.Equal(t, "repo-7", refreshed.PersistentProjectID)
	assert.Len(t, refreshed.Nodes, 2)

	loaded, err := e.GetGraph(ctx, g.ProjectID, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Nodes, 2, "refresh overwrites the stored graph")
}

func TestRefreshGraph_MissingGraphReturnsNil(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	g, err := e.RefreshGraph(context.Background(), "no-such-id", "u1", []SourceFile{src("a.js", "")})
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestDeleteGraphAndCleanup(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)
	ctx := context.Background()

	g, err := e.AnalyzeProject(ctx, "u1", "demo", []SourceFile{src("a.js", "")}, AnalyzeOptions{})
	require.NoError(t, err)

	deleted, err := e.DeleteGraph(ctx, g.ProjectID, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = e.DeleteGraph(ctx, g.ProjectID, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err := e.CleanupExpiredGraphs(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// Helpers
// =============================================================================

func TestRelPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "src/a.js", relPath("./src/a.js"))
	assert.Equal(t, "src/a.js", relPath("/src/a.js"))
	assert.Equal(t, "src/a.js", relPath("src\\a.js"))
	assert.Equal(t, "a.js", relPath("a.js"))
}
