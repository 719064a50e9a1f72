package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_LineClassification(t *testing.T) {
	t.Parallel()
	src := `// header comment
const a = 1;

/* block
   still block
*/
const b = 2;
`
	result := newParseResult("javascript")
	computeMetrics(result, src)

	m := result.Metrics
	assert.Equal(t, 8, m.TotalLines) // trailing newline yields a final empty line
	assert.Equal(t, 2, m.CodeLines)
	assert.Equal(t, 4, m.CommentLines)
	assert.Equal(t, 2, m.BlankLines)
	assert.InDelta(t, 0.5, m.CommentRatio, 1e-9)
}

func TestComputeMetrics_SingleLineBlockComment(t *testing.T) {
	t.Parallel()
	result := newParseResult("javascript")
	computeMetrics(result, "/* one line */\ncode();")

	assert.Equal(t, 1, result.Metrics.CommentLines)
	assert.Equal(t, 1, result.Metrics.CodeLines)
}

func TestComputeMetrics_PythonComments(t *testing.T) {
	t.Parallel()
	src := `# module docstring stand-in
x = 1
"""
real docstring
"""
y = 2`
	result := newParseResult("python")
	computeMetrics(result, src)

	assert.Equal(t, 6, result.Metrics.TotalLines)
	assert.Equal(t, 4, result.Metrics.CommentLines)
	assert.Equal(t, 2, result.Metrics.CodeLines)
}

func TestComputeMetrics_EmptyContentIsDefined(t *testing.T) {
	t.Parallel()
	result := newParseResult("javascript")
	computeMetrics(result, "")

	assert.Equal(t, 0, result.Metrics.TotalLines)
	assert.Zero(t, result.Metrics.CommentRatio)
	assert.False(t, result.Metrics.CommentRatio != result.Metrics.CommentRatio, "ratio must not be NaN")
	assert.Greater(t, result.Metrics.MaintainabilityIndex, 99.0)
}

func TestMaintainabilityIndex_Bounds(t *testing.T) {
	t.Parallel()
	assert.Greater(t, maintainabilityIndex(0, 0, 1), 99.0)
	assert.GreaterOrEqual(t, maintainabilityIndex(100000, 100000, 500), 0.0)
	assert.LessOrEqual(t, maintainabilityIndex(10, 20, 3), 100.0)
}

func TestClassify_Buckets(t *testing.T) {
	t.Parallel()

	simple := newParseResult("javascript")
	simple.Functions = []Function{{Name: "a"}}
	assert.Equal(t, ComplexitySimple, classify(simple))

	medium := newParseResult("javascript")
	for i := 0; i < 8; i++ {
		medium.Functions = append(medium.Functions, Function{Name: "f"})
	}
	// score = 16 + 0.5, between the simple and complex thresholds
	assert.Equal(t, ComplexityMedium, classify(medium))

	complexByScore := newParseResult("javascript")
	for i := 0; i < 10; i++ {
		complexByScore.Classes = append(complexByScore.Classes, Class{Name: "C"})
	}
	assert.Equal(t, ComplexityComplex, classify(complexByScore))

	complexByLines := newParseResult("javascript")
	complexByLines.Metrics.TotalLines = 150
	assert.Equal(t, ComplexityComplex, classify(complexByLines))
}
