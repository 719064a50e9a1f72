// Package analyzer extracts structured facts from single source files:
// functions, classes, variables, imports, exports, and complexity metrics.
//
// Two extraction strategies fill the same ParseResult shape. Languages with a
// tree-sitter grammar (javascript, typescript, tsx) get a full AST walk;
// everything else -- and any file the grammar rejects -- degrades to a
// regex/heuristic pass. Parse never returns an error.
package analyzer

// Parse extracts a ParseResult from one file's content. The language string
// is recorded on the result for traceability regardless of which strategy
// produced the data. Parse is pure with respect to its input and safe to
// call concurrently.
func Parse(content []byte, language string) *ParseResult {
	result := newParseResult(language)

	if _, ok := grammarFor(language); ok {
		if err := extractTreeSitter(result, content, language); err != nil {
			// Grammar pass failed; start over with the heuristic strategy.
			result = newParseResult(language)
			extractHeuristic(result, string(content))
		}
	} else {
		extractHeuristic(result, string(content))
	}

	computeMetrics(result, string(content))
	result.Complexity = classify(result)
	return result
}
