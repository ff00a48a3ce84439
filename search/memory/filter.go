package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shelterhq/refuge/search"
)

type predicate func(search.Document) bool

// compileFilter parses a filter expression into a predicate. The accepted
// grammar is exactly what search.BuildFilters and the age-range helper emit:
// equality atoms (quoted strings, booleans, numbers), <= and >= comparisons,
// inclusive "lo TO hi" ranges, OR groups, and a top-level AND conjunction.
func compileFilter(expr string) (predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(search.Document) bool { return true }, nil
	}

	groups := splitTopLevel(expr, " AND ")
	preds := make([]predicate, 0, len(groups))
	for _, group := range groups {
		p, err := compileGroup(group)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return func(doc search.Document) bool {
		for _, p := range preds {
			if !p(doc) {
				return false
			}
		}
		return true
	}, nil
}

func compileGroup(group string) (predicate, error) {
	group = strings.TrimSpace(group)
	if strings.HasPrefix(group, "(") && strings.HasSuffix(group, ")") && balanced(group[1:len(group)-1]) {
		group = group[1 : len(group)-1]
	}

	alternatives := splitTopLevel(group, " OR ")
	preds := make([]predicate, 0, len(alternatives))
	for _, alt := range alternatives {
		p, err := compileAtom(strings.TrimSpace(alt))
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return func(doc search.Document) bool {
		for _, p := range preds {
			if p(doc) {
				return true
			}
		}
		return false
	}, nil
}

func compileAtom(atom string) (predicate, error) {
	if name, rest, ok := cutOperator(atom, " = "); ok {
		return equalityPredicate(name, rest)
	}
	if name, rest, ok := cutOperator(atom, " <= "); ok {
		bound, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bound in %q", atom)
		}
		return func(doc search.Document) bool {
			v, ok := toFloat(doc[name])
			return ok && v <= bound
		}, nil
	}
	if name, rest, ok := cutOperator(atom, " >= "); ok {
		bound, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bound in %q", atom)
		}
		return func(doc search.Document) bool {
			v, ok := toFloat(doc[name])
			return ok && v >= bound
		}, nil
	}

	// Range form: name lo TO hi.
	fields := strings.Fields(atom)
	if len(fields) == 4 && fields[2] == "TO" {
		lo, loErr := strconv.ParseFloat(fields[1], 64)
		hi, hiErr := strconv.ParseFloat(fields[3], 64)
		if loErr != nil || hiErr != nil {
			return nil, fmt.Errorf("invalid range atom %q", atom)
		}
		name := fields[0]
		return func(doc search.Document) bool {
			v, ok := toFloat(doc[name])
			return ok && v >= lo && v <= hi
		}, nil
	}

	return nil, fmt.Errorf("unsupported filter atom %q", atom)
}

func equalityPredicate(name, raw string) (predicate, error) {
	if strings.HasPrefix(raw, `"`) {
		value, err := strconv.Unquote(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s", raw)
		}
		return func(doc search.Document) bool {
			switch v := doc[name].(type) {
			case string:
				return v == value
			case []string:
				for _, e := range v {
					if e == value {
						return true
					}
				}
				return false
			case []any:
				for _, e := range v {
					if s, ok := e.(string); ok && s == value {
						return true
					}
				}
				return false
			default:
				return false
			}
		}, nil
	}
	if raw == "true" || raw == "false" {
		want := raw == "true"
		return func(doc search.Document) bool {
			v, ok := doc[name].(bool)
			return ok && v == want
		}, nil
	}
	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q", raw)
	}
	return func(doc search.Document) bool {
		v, ok := toFloat(doc[name])
		return ok && v == num
	}, nil
}

func cutOperator(atom, op string) (name, rest string, ok bool) {
	idx := strings.Index(atom, op)
	if idx < 0 {
		return "", "", false
	}
	return atom[:idx], atom[idx+len(op):], true
}

// splitTopLevel splits on sep, ignoring occurrences inside parentheses or
// quoted strings.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if i == 0 || s[i-1] != '\\' {
				inQuote = !inQuote
			}
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		}
		if depth == 0 && !inQuote && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}
