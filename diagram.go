package codescribe

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// DiagramType selects the rendering style for GenerateDiagram.
type DiagramType string

const (
	// DiagramArchitecture is a top-down flowchart grouped by directory.
	DiagramArchitecture DiagramType = "architecture"
	// DiagramDependencies is a left-right flowchart, optionally focused on
	// one file and its direct neighborhood.
	DiagramDependencies DiagramType = "dependencies"
	// DiagramDataflow is a top-down flowchart with nodes categorized into
	// entry points, core modules, and leaf utilities.
	DiagramDataflow DiagramType = "dataflow"
)

// DiagramOptions controls diagram generation.
type DiagramOptions struct {
	// Type selects the layout; unrecognized values render as architecture.
	Type DiagramType
	// FocusFile limits a dependencies diagram to one node plus its direct
	// dependents and dependencies.
	FocusFile string
	// MaxNodes truncates the rendered node set, keeping the most-connected
	// nodes. Zero means no limit.
	MaxNodes int
}

// GenerateDiagram renders a graph as Mermaid flowchart markup. The empty
// string is the null result: a nil or expired graph, or a dependencies
// diagram whose FocusFile is not a node.
func GenerateDiagram(g *DependencyGraph, opts DiagramOptions) string {
	if g == nil || g.Expired(time.Now()) {
		return ""
	}

	switch opts.Type {
	case DiagramDependencies:
		return renderDependencies(g, opts)
	case DiagramDataflow:
		return renderDataflow(g, opts)
	default:
		return renderArchitecture(g, opts)
	}
}

// selectNodes applies the MaxNodes cap, preferring the most-connected nodes
// while keeping the original order among survivors.
func selectNodes(g *DependencyGraph, maxNodes int) map[string]bool {
	keep := make(map[string]bool, len(g.Nodes))
	if maxNodes <= 0 || len(g.Nodes) <= maxNodes {
		for i := range g.Nodes {
			keep[g.Nodes[i].ID] = true
		}
		return keep
	}

	type ranked struct {
		id          string
		connections int
		index       int
	}
	rank := make([]ranked, 0, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		rank = append(rank, ranked{n.ID, n.DependentCount + n.DependencyCount, i})
	}
	sort.SliceStable(rank, func(a, b int) bool {
		if rank[a].connections != rank[b].connections {
			return rank[a].connections > rank[b].connections
		}
		return rank[a].index < rank[b].index
	})
	for _, r := range rank[:maxNodes] {
		keep[r.id] = true
	}
	return keep
}

// mermaidID maps an arbitrary node ID to a valid Mermaid identifier.
func mermaidID(id string) string {
	out := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, id)
	if out == "" {
		return "node"
	}
	return out
}

// mermaidLabel escapes characters Mermaid treats specially in node labels.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	return s
}

func writeEdge(b *strings.Builder, edge GraphEdge) {
	fmt.Fprintf(b, "  %s --> %s\n", mermaidID(edge.From), mermaidID(edge.To))
}

// renderArchitecture groups nodes into one subgraph per directory.
func renderArchitecture(g *DependencyGraph, opts DiagramOptions) string {
	keep := selectNodes(g, opts.MaxNodes)

	// Group by directory, preserving first-seen directory order.
	var dirOrder []string
	byDir := map[string][]*GraphNode{}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !keep[n.ID] {
			continue
		}
		dir := path.Dir(n.ID)
		if dir == "." {
			dir = "root"
		}
		if _, ok := byDir[dir]; !ok {
			dirOrder = append(dirOrder, dir)
		}
		byDir[dir] = append(byDir[dir], n)
	}

	var b strings.Builder
	b.WriteString("flowchart TD\n")
	for i, dir := range dirOrder {
		fmt.Fprintf(&b, "  subgraph dir%d[\"%s\"]\n", i, mermaidLabel(dir))
		for _, n := range byDir[dir] {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", mermaidID(n.ID), mermaidLabel(n.FileName))
		}
		b.WriteString("  end\n")
	}
	for _, edge := range g.Edges {
		if keep[edge.From] && keep[edge.To] {
			writeEdge(&b, edge)
		}
	}
	return b.String()
}

// renderDependencies renders a left-right flowchart. With a FocusFile it
// narrows to the focus node plus direct neighbors, styling each role.
func renderDependencies(g *DependencyGraph, opts DiagramOptions) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	if opts.FocusFile == "" {
		keep := selectNodes(g, opts.MaxNodes)
		for i := range g.Nodes {
			n := &g.Nodes[i]
			if keep[n.ID] {
				fmt.Fprintf(&b, "  %s[\"%s\"]\n", mermaidID(n.ID), mermaidLabel(n.ID))
			}
		}
		for _, edge := range g.Edges {
			if keep[edge.From] && keep[edge.To] {
				writeEdge(&b, edge)
			}
		}
		return b.String()
	}

	focus := g.Node(opts.FocusFile)
	if focus == nil {
		return ""
	}

	role := map[string]string{focus.ID: "focus"}
	var order []string
	add := func(id, r string) {
		if _, ok := role[id]; !ok {
			role[id] = r
			order = append(order, id)
		}
	}
	order = append(order, focus.ID)
	var edges []GraphEdge
	for _, edge := range g.Edges {
		switch {
		case edge.To == focus.ID:
			add(edge.From, "dependent")
			edges = append(edges, edge)
		case edge.From == focus.ID:
			add(edge.To, "dependency")
			edges = append(edges, edge)
		}
	}

	for _, id := range order {
		fmt.Fprintf(&b, "  %s[\"%s\"]:::%s\n", mermaidID(id), mermaidLabel(id), role[id])
	}
	for _, edge := range edges {
		writeEdge(&b, edge)
	}
	b.WriteString("  classDef focus fill:#f96,stroke:#333,stroke-width:2px\n")
	b.WriteString("  classDef dependent fill:#9cf,stroke:#333\n")
	b.WriteString("  classDef dependency fill:#9f9,stroke:#333\n")
	return b.String()
}

// renderDataflow categorizes nodes into entry points (no dependents, has
// dependencies), leaf utilities (has dependents, no dependencies), and core
// (everything else), preserving cross-category edges.
func renderDataflow(g *DependencyGraph, opts DiagramOptions) string {
	keep := selectNodes(g, opts.MaxNodes)

	category := func(n *GraphNode) string {
		switch {
		case n.DependentCount == 0 && n.DependencyCount > 0:
			return "Entry"
		case n.DependentCount > 0 && n.DependencyCount == 0:
			return "Utilities"
		default:
			return "Core"
		}
	}

	groups := map[string][]*GraphNode{}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if keep[n.ID] {
			groups[category(n)] = append(groups[category(n)], n)
		}
	}

	var b strings.Builder
	b.WriteString("flowchart TD\n")
	for _, name := range []string{"Entry", "Core", "Utilities"} {
		nodes := groups[name]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  subgraph %s\n", name)
		for _, n := range nodes {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", mermaidID(n.ID), mermaidLabel(n.FileName))
		}
		b.WriteString("  end\n")
	}
	for _, edge := range g.Edges {
		if keep[edge.From] && keep[edge.To] {
			writeEdge(&b, edge)
		}
	}
	return b.String()
}
