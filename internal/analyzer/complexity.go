package analyzer

import (
	"math"
	"strings"
)

// computeMetrics fills line-derived metrics for the file. All fields are
// defined for any input, including empty content.
func computeMetrics(result *ParseResult, content string) {
	m := &result.Metrics

	lines := strings.Split(content, "\n")
	if content == "" {
		lines = nil
	}
	m.TotalLines = len(lines)

	lineComment, blockOpen, blockClose := commentMarkers(result.Language)

	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			m.BlankLines++
		case inBlock:
			m.CommentLines++
			if blockClose != "" && strings.Contains(trimmed, blockClose) {
				inBlock = false
			}
		case lineComment != "" && strings.HasPrefix(trimmed, lineComment):
			m.CommentLines++
		case blockOpen != "" && strings.HasPrefix(trimmed, blockOpen):
			m.CommentLines++
			if !strings.Contains(trimmed[len(blockOpen):], blockClose) {
				inBlock = true
			}
		default:
			m.CodeLines++
		}
	}

	if m.TotalLines > 0 {
		m.CommentRatio = float64(m.CommentLines) / float64(m.TotalLines)
	}
	m.MaintainabilityIndex = maintainabilityIndex(m.CodeLines, m.TotalLines, result.CyclomaticComplexity)
}

// commentMarkers returns the line-comment prefix and block-comment delimiters
// for a language. Unknown languages get both C-style and hash comments off;
// hash-only languages (python) get hash.
func commentMarkers(language string) (line, blockOpen, blockClose string) {
	switch language {
	case "python":
		return "#", `"""`, `"""`
	case "javascript", "typescript", "tsx":
		return "//", "/*", "*/"
	default:
		return "//", "/*", "*/"
	}
}

// maintainabilityIndex is the standard composite rescaled to 0..100,
// guarded so empty files score 100 rather than NaN.
func maintainabilityIndex(codeLines, totalLines, cyclomatic int) float64 {
	loc := math.Max(1, float64(codeLines))
	total := math.Max(1, float64(totalLines))
	mi := 171 - 5.2*math.Log(loc) - 0.23*float64(cyclomatic) - 16.2*math.Log(total)
	mi = mi * 100 / 171
	return math.Max(0, math.Min(100, mi))
}

// Classification thresholds. The score is monotonic in every input; the
// bucket boundaries are tunable but ordered.
const (
	simpleScoreMax   = 15.0
	complexScoreMin  = 30.0
	complexLineCount = 100
)

// classify buckets the file by a weighted composite of its extracted facts.
func classify(result *ParseResult) ComplexityLevel {
	score := 2*float64(len(result.Functions)) +
		3*float64(len(result.Classes)) +
		float64(len(result.Exports)) +
		0.5*float64(len(result.Imports)) +
		0.5*float64(result.CyclomaticComplexity)

	switch {
	case score >= complexScoreMin || result.Metrics.TotalLines > complexLineCount:
		return ComplexityComplex
	case score < simpleScoreMax:
		return ComplexitySimple
	default:
		return ComplexityMedium
	}
}
