package codescribe

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// diagramTestGraph: main.js -> core/api.js -> core/util.js, plus an isolated
// docs/extra.js node.
func diagramTestGraph() *DependencyGraph {
	now := time.Now().UTC()
	return &DependencyGraph{
		ProjectID: "p1",
		UserID:    "u1",
		Nodes: []GraphNode{
			{ID: "main.js", FileName: "main.js", DependencyCount: 1},
			{ID: "core/api.js", FileName: "api.js", DependentCount: 1, DependencyCount: 1},
			{ID: "core/util.js", FileName: "util.js", DependentCount: 1},
			{ID: "docs/extra.js", FileName: "extra.js"},
		},
		Edges: []GraphEdge{
			{From: "main.js", To: "core/api.js", Specifiers: []string{"api"}},
			{From: "core/api.js", To: "core/util.js", Specifiers: []string{"util"}},
		},
		AnalyzedAt: now,
		ExpiresAt:  now.Add(GraphTTL),
	}
}

func TestGenerateDiagram_NilAndExpiredGraph(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GenerateDiagram(nil, DiagramOptions{}))

	g := diagramTestGraph()
	g.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Empty(t, GenerateDiagram(g, DiagramOptions{}))
}

func TestGenerateDiagram_ArchitectureGroupsByDirectory(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: DiagramArchitecture})

	assert.True(t, strings.HasPrefix(out, "flowchart TD\n"))
	assert.Contains(t, out, `subgraph dir0["root"]`)
	assert.Contains(t, out, `subgraph dir1["core"]`)
	assert.Contains(t, out, `subgraph dir2["docs"]`)
	assert.Contains(t, out, `main_js["main.js"]`)
	assert.Contains(t, out, `core_api_js["api.js"]`)
	assert.Contains(t, out, "main_js --> core_api_js")
	assert.Contains(t, out, "core_api_js --> core_util_js")
}

func TestGenerateDiagram_UnknownTypeFallsBackToArchitecture(t *testing.T) {
	t.Parallel()
	fallback := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: "bogus"})
	arch := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: DiagramArchitecture})
	assert.Equal(t, arch, fallback)
}

func TestGenerateDiagram_DependenciesWholeGraph(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: DiagramDependencies})

	assert.True(t, strings.HasPrefix(out, "flowchart LR\n"))
	assert.Contains(t, out, `main_js["main.js"]`)
	assert.Contains(t, out, "main_js --> core_api_js")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateDiagram_DependenciesFocused(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{
		Type:      DiagramDependencies,
		FocusFile: "core/api.js",
	})

	assert.Contains(t, out, `core_api_js["core/api.js"]:::focus`)
	assert.Contains(t, out, `main_js["main.js"]:::dependent`)
	assert.Contains(t, out, `core_util_js["core/util.js"]:::dependency`)
	assert.Contains(t, out, "classDef focus")
	assert.NotContains(t, out, "extra_js", "unrelated nodes are excluded")
}

func TestGenerateDiagram_DependenciesFocusMissing(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{
		Type:      DiagramDependencies,
		FocusFile: "nope.js",
	})
	assert.Empty(t, out)
}

func TestGenerateDiagram_DataflowCategories(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: DiagramDataflow})

	assert.True(t, strings.HasPrefix(out, "flowchart TD\n"))
	assert.Contains(t, out, "subgraph Entry\n")
	assert.Contains(t, out, "subgraph Core\n")
	assert.Contains(t, out, "subgraph Utilities\n")

	// main.js has dependencies and no dependents: entry point. util.js has
	// dependents and no dependencies: utility. api.js has both: core. The
	// isolated node has neither and lands in Core.
	entrySection := out[strings.Index(out, "subgraph Entry"):strings.Index(out, "subgraph Core")]
	assert.Contains(t, entrySection, "main_js")

	assert.Contains(t, out, "main_js --> core_api_js", "cross-category edges are kept")
}

func TestGenerateDiagram_MaxNodesKeepsMostConnected(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{
		Type:     DiagramDependencies,
		MaxNodes: 2,
	})

	// api.js has 2 connections; main.js and util.js have 1 each, so the
	// earlier node (main.js) breaks the tie. The isolated node is dropped.
	assert.Contains(t, out, "main_js")
	assert.Contains(t, out, "core_api_js")
	assert.NotContains(t, out, "core_util_js")
	assert.NotContains(t, out, "extra_js")

	// Only edges between kept nodes survive.
	assert.Contains(t, out, "main_js --> core_api_js")
	assert.NotContains(t, out, "core_api_js --> core_util_js")
}

func TestGenerateDiagram_MaxNodesZeroMeansNoLimit(t *testing.T) {
	t.Parallel()
	out := GenerateDiagram(diagramTestGraph(), DiagramOptions{Type: DiagramDependencies, MaxNodes: 0})
	assert.Contains(t, out, "extra_js")
}

func TestMermaidHelpers(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "src_my_file_js", mermaidID("src/my-file.js"))
	assert.Equal(t, "node", mermaidID(""))
	assert.Equal(t, "a #lt;b#gt; #quot;c#quot;", mermaidLabel(`a <b> "c"`))
}
