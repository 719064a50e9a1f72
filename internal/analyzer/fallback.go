package analyzer

import (
	"regexp"
	"strings"
)

// Heuristic extraction patterns. These back the fallback strategy used for
// languages without a grammar and for files the tree-sitter pass rejects.
var (
	pyDefRe        = regexp.MustCompile(`^(\s*)(async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)`)
	pyClassRe      = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	pyImportRe     = regexp.MustCompile(`^import\s+([\w.]+)(?:\s+as\s+([A-Za-z_]\w*))?`)
	pyFromImportRe = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)`)
	pyAssignRe     = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=[^=]`)

	jsFuncRe   = regexp.MustCompile(`(?:^|\s)(async\s+)?function\s*(\*)?\s*([A-Za-z_$][\w$]*)?\s*\(([^)]*)`)
	jsArrowRe  = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	jsClassRe  = regexp.MustCompile(`class\s+([A-Za-z_$][\w$]*)`)
	jsImportRe = regexp.MustCompile(`import\s+(?:.+?\s+from\s+)?['"]([^'"]+)['"]`)
	jsVarRe    = regexp.MustCompile(`(?:^|\s)(?:const|let|var)\s+([A-Za-z_$][\w$]*)`)
	jsExportRe = regexp.MustCompile(`export\s+(default\s+)?(?:async\s+)?(?:function\s*\*?\s*|class\s+|const\s+|let\s+|var\s+)?([A-Za-z_$][\w$]*)?`)

	branchWordRe = regexp.MustCompile(`\b(if|elif|for|while|case|except|catch)\b`)
	logicalOpRe  = regexp.MustCompile(`&&|\|\|`)
	ternaryRe    = regexp.MustCompile(`\?[^.?:]*:`)
)

// extractHeuristic fills result with best-effort facts found by line-pattern
// matching. It never fails; at worst the result stays near-empty.
func extractHeuristic(result *ParseResult, content string) {
	if result.Language == "python" {
		extractPythonHeuristic(result, content)
	} else {
		extractGenericHeuristic(result, content)
	}
	countHeuristicBranches(result, content)
}

// extractPythonHeuristic recognizes def/class/import forms by indentation.
// Defs indented under the most recent class become its methods.
func extractPythonHeuristic(result *ParseResult, content string) {
	var currentClass *Class

	flushClass := func() {
		if currentClass != nil {
			result.Classes = append(result.Classes, *currentClass)
			currentClass = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			flushClass()
			currentClass = &Class{Name: m[1], Methods: []Method{}}
			continue
		}

		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			indent, async, name, params := m[1], m[2] != "", m[3], m[4]
			if currentClass != nil && indent != "" {
				currentClass.Methods = append(currentClass.Methods, Method{
					Name:  name,
					Async: async,
					Kind:  MethodKindMethod,
				})
				continue
			}
			flushClass()
			result.Functions = append(result.Functions, Function{
				Name:   name,
				Params: splitParams(params),
				Async:  async,
				Kind:   FunctionKindFunction,
			})
			continue
		}

		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			spec := ImportSpecifier{Kind: ImportKindNamespace, Name: m[1]}
			if m[2] != "" {
				spec.Alias = m[2]
			}
			result.Imports = append(result.Imports, Import{
				Source:     m[1],
				Specifiers: []ImportSpecifier{spec},
			})
			continue
		}

		if m := pyFromImportRe.FindStringSubmatch(line); m != nil {
			imp := Import{Source: m[1], Specifiers: []ImportSpecifier{}}
			for _, part := range strings.Split(m[2], ",") {
				name, alias, _ := strings.Cut(strings.TrimSpace(part), " as ")
				spec := ImportSpecifier{Kind: ImportKindNamed, Name: strings.TrimSpace(name)}
				if alias != "" {
					spec.Alias = strings.TrimSpace(alias)
				}
				if spec.Name != "" {
					imp.Specifiers = append(imp.Specifiers, spec)
				}
			}
			result.Imports = append(result.Imports, imp)
			continue
		}

		if m := pyAssignRe.FindStringSubmatch(line); m != nil {
			result.Variables = append(result.Variables, m[1])
		}
	}
	flushClass()
}

// extractGenericHeuristic applies C-family patterns for unknown languages and
// for javascript sources the tree-sitter pass could not handle.
func extractGenericHeuristic(result *ParseResult, content string) {
	for _, m := range jsFuncRe.FindAllStringSubmatch(content, -1) {
		name := m[3]
		if name == "" {
			name = "anonymous"
		}
		result.Functions = append(result.Functions, Function{
			Name:      name,
			Params:    splitParams(m[4]),
			Async:     m[1] != "",
			Generator: m[2] != "",
			Kind:      FunctionKindFunction,
		})
	}
	for _, m := range jsArrowRe.FindAllStringSubmatch(content, -1) {
		result.Functions = append(result.Functions, Function{
			Name:   m[1],
			Params: []string{},
			Async:  m[2] != "",
			Kind:   FunctionKindArrow,
		})
	}
	for _, m := range jsClassRe.FindAllStringSubmatch(content, -1) {
		result.Classes = append(result.Classes, Class{Name: m[1], Methods: []Method{}})
	}
	for _, m := range jsImportRe.FindAllStringSubmatch(content, -1) {
		result.Imports = append(result.Imports, Import{
			Source:     m[1],
			Specifiers: []ImportSpecifier{{Kind: ImportKindSideEffect}},
		})
	}
	for _, m := range jsVarRe.FindAllStringSubmatch(content, -1) {
		result.Variables = append(result.Variables, m[1])
	}
	for _, m := range jsExportRe.FindAllStringSubmatch(content, -1) {
		kind := ExportKindNamed
		name := m[2]
		if m[1] != "" {
			kind = ExportKindDefault
			if name == "" {
				name = "default"
			}
		}
		if name == "" {
			continue
		}
		result.Exports = append(result.Exports, Export{Name: name, Kind: kind})
	}
}

// countHeuristicBranches approximates cyclomatic complexity by counting
// branch keywords, ternaries and logical operators.
func countHeuristicBranches(result *ParseResult, content string) {
	result.CyclomaticComplexity += len(branchWordRe.FindAllString(content, -1))
	result.CyclomaticComplexity += len(logicalOpRe.FindAllString(content, -1))
	if result.Language != "python" {
		result.CyclomaticComplexity += len(ternaryRe.FindAllString(content, -1))
	}
}

// splitParams turns a raw parameter list into trimmed names, dropping type
// annotations and defaults.
func splitParams(raw string) []string {
	params := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if i := strings.IndexAny(name, ":="); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		name = strings.TrimPrefix(name, "...")
		name = strings.TrimPrefix(name, "*")
		if name != "" {
			params = append(params, name)
		}
	}
	return params
}
