package core

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const modulePrefix = "github.com/crmarques/shopctl/"

// moduleImports maps each package directory, relative to the module root,
// to the module packages its non-test files import.
func moduleImports(t *testing.T) map[string]map[string]bool {
	t.Helper()

	root := filepath.Clean("..")
	imports := map[string]map[string]bool{}
	fset := token.NewFileSet()

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg := filepath.ToSlash(rel)

		parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		if imports[pkg] == nil {
			imports[pkg] = map[string]bool{}
		}
		for _, imported := range parsed.Imports {
			importPath := strings.Trim(imported.Path.Value, "\"")
			if target, ok := strings.CutPrefix(importPath, modulePrefix); ok {
				imports[pkg][target] = true
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("import scan failed: %v", err)
	}
	return imports
}

// The SDK packages form layers: the path resolver and the change tracker at
// the bottom, the CRUD layer over them, declarations and clients on top.
// None of them may reach into internal/ or core.
func TestSDKLayering(t *testing.T) {
	t.Parallel()

	allowed := map[string][]string{
		"faults":    nil,
		"debugctx":  nil,
		"config":    nil,
		"tracked":   nil,
		"restpath":  {"faults"},
		"resource":  {"debugctx", "faults", "restpath", "tracked"},
		"resources": {"faults", "resource", "restpath", "tracked"},
		"graphql":   {"debugctx", "faults", "resource"},
		"auth":      {"config", "debugctx", "faults"},
	}

	imports := moduleImports(t)
	for pkg, permitted := range allowed {
		permittedSet := map[string]bool{}
		for _, name := range permitted {
			permittedSet[name] = true
		}

		var violations []string
		for target := range imports[pkg] {
			if !permittedSet[target] {
				violations = append(violations, target)
			}
		}
		sort.Strings(violations)
		if len(violations) > 0 {
			t.Errorf("%s imports %v; allowed %v", pkg, violations, permitted)
		}
	}
}

func TestOnlyCoreImportsProviders(t *testing.T) {
	t.Parallel()

	for pkg, targets := range moduleImports(t) {
		if pkg == "core" || strings.HasPrefix(pkg, "internal/providers/") {
			continue
		}
		for target := range targets {
			if strings.HasPrefix(target, "internal/providers/") {
				t.Errorf("%s imports provider %q; go through core", pkg, target)
			}
		}
	}
}
