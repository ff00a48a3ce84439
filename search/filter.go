package search

import (
	"fmt"
	"sort"
	"strings"
)

// Clause is a raw, pre-built filter clause (e.g. a numeric range such as
// "birthdateTimestamp 123 TO 456"). It is emitted verbatim.
type Clause string

// Filters maps an attribute name to a value constraint. Supported value
// types: string, []string, bool, integer/float, and Clause. Nil values,
// empty strings and empty slices are skipped silently; there is deliberately
// no way to express "attribute must be absent" through this builder.
type Filters map[string]any

// BuildFilters turns a field mapping into the engine's boolean filter
// string. Multiple values for one attribute are OR-ed; when more than one
// attribute group is conjoined, every group containing " OR " is wrapped in
// parentheses before the groups are joined with " AND ". Zero clauses yield
// an empty string, which callers must interpret as "unfiltered".
//
// The function is pure and deterministic: attribute groups are emitted in
// sorted attribute order, which affects only the string form, never the
// matched set (AND/OR are order-independent).
func BuildFilters(fields Filters) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var groups []string
	for _, name := range names {
		group := buildGroup(name, fields[name])
		if group != "" {
			groups = append(groups, group)
		}
	}

	if len(groups) == 0 {
		return ""
	}
	if len(groups) == 1 {
		return groups[0]
	}
	for i, group := range groups {
		if strings.Contains(group, " OR ") {
			groups[i] = "(" + group + ")"
		}
	}
	return strings.Join(groups, " AND ")
}

func buildGroup(name string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case Clause:
		return string(v)
	case string:
		if v == "" {
			return ""
		}
		return atom(name, v)
	case []string:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if e == "" {
				continue
			}
			parts = append(parts, atom(name, e))
		}
		return strings.Join(parts, " OR ")
	case bool:
		return fmt.Sprintf("%s = %t", name, v)
	case int, int32, int64, float64:
		return fmt.Sprintf("%s = %v", name, v)
	default:
		return ""
	}
}

func atom(name, value string) string {
	return fmt.Sprintf("%s = %q", name, value)
}
