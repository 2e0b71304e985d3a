package restpath

// Resolve selects the route of table serving operation whose required
// parameters are all present in available. Extra names in available are
// ignored. When several entries match, the one with the most required
// parameters wins; ties go to the entry declared first.
func Resolve(table Table, operation Operation, available []string) (Entry, bool) {
	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[name] = struct{}{}
	}

	best := -1
	for idx, entry := range table {
		if entry.Operation != operation {
			continue
		}
		if !entry.satisfiedBy(availableSet) {
			continue
		}
		if best < 0 || entry.Specificity() > table[best].Specificity() {
			best = idx
		}
	}

	if best < 0 {
		return Entry{}, false
	}
	return table[best], true
}

func (t Table) Resolve(operation Operation, available []string) (Entry, bool) {
	return Resolve(t, operation, available)
}

// Route resolves the entry for operation using the names carried by params
// and substitutes their values into the template. A missing route is
// reported as a *ResolutionError naming resourceName.
func Route(resourceName string, table Table, operation Operation, params Params) (string, string, error) {
	available := params.Names()
	entry, ok := Resolve(table, operation, available)
	if !ok {
		return "", "", NewResolutionError(resourceName, operation, available)
	}
	return entry.Method, BuildPath(entry.Template, params), nil
}
