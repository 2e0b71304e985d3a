package restpath

import (
	"net/http"
	"sort"
	"strings"
)

type Operation string

const (
	OperationFind   Operation = "find"
	OperationAll    Operation = "all"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationCount  Operation = "count"
)

func (o Operation) IsValid() bool {
	switch o {
	case OperationFind, OperationAll, OperationCreate, OperationUpdate, OperationDelete, OperationCount:
		return true
	default:
		return false
	}
}

// ParseOperation accepts the lowercase operation names used on the command line.
func ParseOperation(value string) (Operation, bool) {
	operation := Operation(strings.ToLower(strings.TrimSpace(value)))
	return operation, operation.IsValid()
}

// Entry declares one route of a resource: the HTTP method, the operation it
// serves, the parameter names that must be known, and the path template with
// one {name} placeholder per parameter.
type Entry struct {
	Method    string
	Operation Operation
	Params    []string
	Template  string
}

// Specificity is the number of required parameters; more specific routes win.
func (e Entry) Specificity() int {
	return len(e.Params)
}

func (e Entry) satisfiedBy(available map[string]struct{}) bool {
	for _, name := range e.Params {
		if _, ok := available[name]; !ok {
			return false
		}
	}
	return true
}

// Table is the ordered route list of one resource type. Tables are declared
// as package-level values and never mutated.
type Table []Entry

// Operations returns the distinct operations declared in the table, in
// declaration order.
func (t Table) Operations() []Operation {
	seen := make(map[Operation]struct{}, len(t))
	operations := make([]Operation, 0, len(t))
	for _, entry := range t {
		if _, ok := seen[entry.Operation]; ok {
			continue
		}
		seen[entry.Operation] = struct{}{}
		operations = append(operations, entry.Operation)
	}
	return operations
}

func (t Table) Supports(operation Operation) bool {
	for _, entry := range t {
		if entry.Operation == operation {
			return true
		}
	}
	return false
}

// Params holds runtime path parameter values keyed by placeholder name.
type Params map[string]string

// Names returns the sorted names of parameters that carry a non-empty value.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name, value := range p {
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new Params with the non-empty values of overrides applied
// on top of p.
func (p Params) Merge(overrides Params) Params {
	merged := make(Params, len(p)+len(overrides))
	for name, value := range p {
		if strings.TrimSpace(value) != "" {
			merged[name] = value
		}
	}
	for name, value := range overrides {
		if strings.TrimSpace(value) != "" {
			merged[name] = value
		}
	}
	return merged
}

func isSupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
