package restpath

import (
	"fmt"
	"strings"
)

// BuildPath replaces every {name} placeholder in template with params[name].
// Values are inserted verbatim. A placeholder without a value is a caller bug
// (Resolve guarantees availability) and panics.
func BuildPath(template string, params Params) string {
	var builder strings.Builder
	builder.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			builder.WriteString(rest)
			break
		}
		closeIdx := strings.IndexByte(rest[open:], '}')
		if closeIdx < 0 {
			builder.WriteString(rest)
			break
		}
		closeIdx += open

		name := rest[open+1 : closeIdx]
		value, ok := params[name]
		if !ok || value == "" {
			panic(fmt.Sprintf("restpath: template %q requires parameter %q", template, name))
		}

		builder.WriteString(rest[:open])
		builder.WriteString(value)
		rest = rest[closeIdx+1:]
	}

	return builder.String()
}

// Placeholders returns the placeholder names of template in order of
// appearance, duplicates included.
func Placeholders(template string) []string {
	names, _ := scanPlaceholders(template)
	return names
}

func scanPlaceholders(template string) ([]string, bool) {
	names := make([]string, 0, 2)
	rest := template
	for {
		open := strings.IndexAny(rest, "{}")
		if open < 0 {
			return names, true
		}
		if rest[open] == '}' {
			return names, false
		}
		closeIdx := strings.IndexAny(rest[open+1:], "{}")
		if closeIdx < 0 || rest[open+1+closeIdx] == '{' {
			return names, false
		}
		closeIdx += open + 1

		names = append(names, rest[open+1:closeIdx])
		rest = rest[closeIdx+1:]
	}
}
