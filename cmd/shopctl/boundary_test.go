package main

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// main only wires dependencies; commands live in internal/cli.
func TestMainOnlyWiresDependencies(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{
		"github.com/crmarques/shopctl/config":               true,
		"github.com/crmarques/shopctl/core":                 true,
		"github.com/crmarques/shopctl/internal/cli":         true,
		"github.com/crmarques/shopctl/internal/cli/version": true,
		"github.com/prometheus/client_golang/prometheus":    true,
	}

	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}

	fset := token.NewFileSet()
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		parsed, err := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", file, err)
		}
		for _, imported := range parsed.Imports {
			importPath := strings.Trim(imported.Path.Value, "\"")
			first, _, _ := strings.Cut(importPath, "/")
			if !strings.Contains(first, ".") {
				continue
			}
			if !allowed[importPath] {
				t.Errorf("%s imports %q", file, importPath)
			}
		}
	}
}
