package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	codescribe "github.com/jmcoleman/codescribe-ai-sub006"
	"github.com/jmcoleman/codescribe-ai-sub006/internal/analyzer"
)

// skipDirs are never descended into regardless of .gitignore.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// collectFiles walks root and loads every analyzable source file into a
// snapshot. Paths are relative to root with forward slashes. Files matched by
// the project's .gitignore are skipped.
func collectFiles(root string) ([]codescribe.SourceFile, error) {
	gi := loadGitignore(root)

	var files []codescribe.SourceFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if analyzer.LanguageForFile(rel) == "unknown" {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		content, readErr := os.ReadFile(p)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", rel, readErr)
		}
		files = append(files, codescribe.SourceFile{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// loadGitignore compiles the project's .gitignore, or returns nil if absent.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
