package common

import (
	"fmt"
	"strings"

	"github.com/crmarques/shopctl/restpath"
)

// ParseParams turns repeated name=value flags into path parameters. A name
// given twice keeps the last value. Values are single path segments, so
// '/', '?' and '#' are rejected.
func ParseParams(raw []string) (restpath.Params, error) {
	params := restpath.Params{}
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ValidationError(fmt.Sprintf("invalid --param %q: expected name=value", item), nil)
		}
		value = strings.TrimSpace(value)
		if strings.ContainsAny(value, "/?#") {
			return nil, ValidationError(fmt.Sprintf("invalid --param %q: value must not contain '/', '?' or '#'", item), nil)
		}
		params[name] = value
	}
	return params, nil
}
