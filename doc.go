// Package codescribe builds persisted dependency graphs of JavaScript,
// TypeScript, and Python projects using tree-sitter, and derives per-file
// context strings and Mermaid diagrams from them for AI documentation
// tooling.
//
// # Pipeline
//
// Analysis runs in three phases:
//
//  1. Parse: every snapshot file is parsed with the matching tree-sitter
//     grammar into a ParseResult (functions, classes, variables, imports,
//     exports, complexity metrics). Files the grammar rejects degrade to a
//     best-effort heuristic extraction; a parse never fails an analysis.
//
//  2. Resolve: each import specifier is matched against the snapshot's file
//     set. Relative and root-absolute specifiers resolve through extension
//     and index-file candidates; bare specifiers are always external.
//     Resolved imports become graph edges, one per file pair.
//
//  3. Persist: the assembled graph is written to SQLite as one row with a
//     24 hour TTL. Expired graphs are invisible to reads and reclaimed by
//     [Engine.CleanupExpiredGraphs].
//
// # Usage
//
// Create an Engine, analyze a snapshot, then derive views from the graph:
//
//	e, err := codescribe.New("codescribe.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	g, err := e.AnalyzeProject(ctx, "user-1", "my-app", files, codescribe.AnalyzeOptions{})
//
//	fc, err := e.GetFileContext(ctx, g.ProjectID, "user-1", "src/app.js")
//	diagram := codescribe.GenerateDiagram(g, codescribe.DiagramOptions{Type: codescribe.DiagramDataflow})
//
// # Derived views
//
// [BuildFileContext] and [GenerateDiagram] are pure functions of a graph:
// identical graphs always yield identical context strings and diagram text.
// Both treat a nil or expired graph as absent and return their null value
// (nil context, empty string).
package codescribe
