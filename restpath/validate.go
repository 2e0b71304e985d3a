package restpath

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/crmarques/shopctl/faults"
)

// Validate checks the static invariants of a route table: known operations
// and methods, well-formed templates, and placeholders that match the
// declared parameters exactly.
func Validate(table Table) error {
	var problems []error
	for idx, entry := range table {
		for _, problem := range validateEntry(entry) {
			problems = append(problems, fmt.Errorf("entry %d (%s %s): %s", idx, entry.Operation, entry.Template, problem))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return faults.NewTypedError(faults.ValidationError, "invalid path table", errors.Join(problems...))
}

func validateEntry(entry Entry) []string {
	var problems []string
	if !entry.Operation.IsValid() {
		problems = append(problems, fmt.Sprintf("unsupported operation %q", entry.Operation))
	}
	if !isSupportedMethod(entry.Method) {
		problems = append(problems, fmt.Sprintf("unsupported method %q", entry.Method))
	}
	if strings.TrimSpace(entry.Template) == "" {
		problems = append(problems, "template is empty")
	}
	if strings.HasPrefix(entry.Template, "/") {
		problems = append(problems, "template must be relative")
	}

	placeholders, wellFormed := scanPlaceholders(entry.Template)
	if !wellFormed {
		problems = append(problems, "template has unbalanced braces")
	}

	declared := make(map[string]struct{}, len(entry.Params))
	for _, name := range entry.Params {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "empty parameter name")
			continue
		}
		if _, dup := declared[name]; dup {
			problems = append(problems, fmt.Sprintf("parameter %q declared twice", name))
		}
		declared[name] = struct{}{}
	}

	used := make(map[string]struct{}, len(placeholders))
	for _, name := range placeholders {
		if _, dup := used[name]; dup {
			problems = append(problems, fmt.Sprintf("placeholder {%s} appears twice", name))
		}
		used[name] = struct{}{}
		if _, ok := declared[name]; !ok {
			problems = append(problems, fmt.Sprintf("placeholder {%s} is not a declared parameter", name))
		}
	}

	var unused []string
	for name := range declared {
		if _, ok := used[name]; !ok {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		problems = append(problems, fmt.Sprintf("parameter %q has no placeholder", name))
	}

	return problems
}
