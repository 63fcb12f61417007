// Package generated decides whether a file or declaration is machine
// generated and must be skipped by every detector.
package generated

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"convlint/internal/semantic"
)

// Gate matches generated paths by suffix or substring.
type Gate struct {
	Suffixes   []string
	Substrings []string
}

// Default matches "*_Gen.cs" files and any path mentioning "Generator".
func Default() Gate {
	return Gate{
		Suffixes:   []string{"_Gen.cs"},
		Substrings: []string{"Generator"},
	}
}

// IsGenerated reports whether path is generated. An empty path never is.
// Path and patterns are compared in NFC, so decomposed names written by
// macOS file systems still match.
func (g Gate) IsGenerated(path string) bool {
	if path == "" {
		return false
	}
	path = norm.NFC.String(filepath.ToSlash(path))
	for _, s := range g.Suffixes {
		if s != "" && strings.HasSuffix(path, norm.NFC.String(s)) {
			return true
		}
	}
	for _, s := range g.Substrings {
		if s != "" && strings.Contains(path, norm.NFC.String(s)) {
			return true
		}
	}
	return false
}

// IsSymbolGenerated is true when any declaring location of sym is generated.
func (g Gate) IsSymbolGenerated(sym *semantic.Symbol) bool {
	if sym == nil {
		return false
	}
	for _, loc := range sym.Locations {
		if g.IsGenerated(loc.Path) {
			return true
		}
	}
	return false
}
