package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PythonFunctionsAndClasses(t *testing.T) {
	t.Parallel()
	src := `import os
from collections import OrderedDict, defaultdict as dd

MAX_SIZE = 100

def top_level(a, b=1, *args):
    return a

class Cache:
    def get(self, key):
        return None

    async def refresh(self):
        pass

def after_class():
    pass
`
	result := Parse([]byte(src), "python")

	require.Len(t, result.Functions, 2)
	assert.Equal(t, "top_level", result.Functions[0].Name)
	assert.Equal(t, []string{"a", "b", "args"}, result.Functions[0].Params)
	assert.Equal(t, "after_class", result.Functions[1].Name)

	require.Len(t, result.Classes, 1)
	cls := result.Classes[0]
	assert.Equal(t, "Cache", cls.Name)
	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "get", cls.Methods[0].Name)
	assert.Equal(t, "refresh", cls.Methods[1].Name)
	assert.True(t, cls.Methods[1].Async)

	require.Len(t, result.Imports, 2)
	assert.Equal(t, "os", result.Imports[0].Source)
	assert.Equal(t, ImportKindNamespace, result.Imports[0].Specifiers[0].Kind)

	from := result.Imports[1]
	assert.Equal(t, "collections", from.Source)
	require.Len(t, from.Specifiers, 2)
	assert.Equal(t, "OrderedDict", from.Specifiers[0].Name)
	assert.Equal(t, "defaultdict", from.Specifiers[1].Name)
	assert.Equal(t, "dd", from.Specifiers[1].Alias)

	assert.Contains(t, result.Variables, "MAX_SIZE")
}

func TestParse_PythonImportAlias(t *testing.T) {
	t.Parallel()
	result := Parse([]byte("import numpy as np\n"), "python")

	require.Len(t, result.Imports, 1)
	spec := result.Imports[0].Specifiers[0]
	assert.Equal(t, "numpy", spec.Name)
	assert.Equal(t, "np", spec.Alias)
}

func TestParse_PythonBranchCounting(t *testing.T) {
	t.Parallel()
	src := `def f(x):
    if x > 0:
        return 1
    elif x < 0:
        return -1
    for i in range(10):
        while i:
            i -= 1
    return 0
`
	result := Parse([]byte(src), "python")

	// Base 1 + if + elif + for + while.
	assert.Equal(t, 5, result.CyclomaticComplexity)
}

func TestExtractHeuristic_GenericJavaScript(t *testing.T) {
	t.Parallel()
	result := newParseResult("unknown")
	extractHeuristic(result, `
function named(a, b) {}
const fn = async () => {};
class Thing {}
import 'side-effect';
export default named;
let counter = 0;
`)

	require.Len(t, result.Functions, 2)
	assert.Equal(t, "named", result.Functions[0].Name)
	assert.Equal(t, []string{"a", "b"}, result.Functions[0].Params)
	assert.Equal(t, "fn", result.Functions[1].Name)
	assert.True(t, result.Functions[1].Async)
	assert.Equal(t, FunctionKindArrow, result.Functions[1].Kind)

	require.Len(t, result.Classes, 1)
	assert.Equal(t, "Thing", result.Classes[0].Name)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "side-effect", result.Imports[0].Source)

	assert.Contains(t, result.Variables, "counter")
}

func TestSplitParams_StripsAnnotationsAndDefaults(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b", "rest"}, splitParams("a: string, b = 3, ...rest"))
	assert.Equal(t, []string{}, splitParams(""))
	assert.Equal(t, []string{"self", "key"}, splitParams("self, key"))
}
