// Package resolver maps import specifiers to in-project files.
//
// Resolution is syntactic and best-effort: relative and absolute-style
// specifiers are resolved against the importing file or the project root,
// while bare specifiers are always treated as external packages -- even when
// a same-named local file exists. This avoids false positives with package
// names and is deliberate, not an oversight.
package resolver

import (
	"strings"
)

// candidateExtensions are tried, in order, after the exact path.
var candidateExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".py"}

// Resolve maps specifier, imported from fromPath, to a project-relative file
// path present in files. Returns "" when the import is external or cannot be
// resolved. Paths use forward slashes and are relative to the project root.
func Resolve(specifier, fromPath string, files map[string]bool) string {
	if specifier == "" {
		return ""
	}

	var base string
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		base = join(dir(fromPath), specifier)
	case strings.HasPrefix(specifier, "/"):
		base = normalize(strings.TrimPrefix(specifier, "/"))
	default:
		// Bare specifier: always an external package.
		return ""
	}

	if base == "" {
		return ""
	}

	// Exact path first, then common source extensions, then index files.
	if files[base] {
		return base
	}
	for _, ext := range candidateExtensions {
		if p := base + ext; files[p] {
			return p
		}
	}
	for _, ext := range candidateExtensions {
		if p := base + "/index" + ext; files[p] {
			return p
		}
	}
	return ""
}

// dir returns the directory portion of a project-relative path, "" at root.
func dir(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

// join concatenates a base directory and a relative specifier, then collapses
// "." and ".." segments.
func join(base, rel string) string {
	if base == "" {
		return normalize(rel)
	}
	return normalize(base + "/" + rel)
}

// normalize collapses "." and ".." segments anywhere in the path. A ".." that
// escapes the project root yields "" (unresolvable).
func normalize(path string) string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(out) == 0 {
				return ""
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
