package search

import (
	"strings"
	"testing"
)

func TestBuildFilters_SingleScalar(t *testing.T) {
	got := BuildFilters(Filters{"species": "DOG"})
	if got != `species = "DOG"` {
		t.Fatalf("BuildFilters() = %q, want %q", got, `species = "DOG"`)
	}
}

func TestBuildFilters_ORGrouping(t *testing.T) {
	got := BuildFilters(Filters{"status": []string{"A", "B"}})
	if got != `status = "A" OR status = "B"` {
		t.Fatalf("single group must not be parenthesized, got %q", got)
	}

	got = BuildFilters(Filters{"status": []string{"A", "B"}, "species": "DOG"})
	want := `species = "DOG" AND (status = "A" OR status = "B")`
	if got != want {
		t.Fatalf("BuildFilters() = %q, want %q", got, want)
	}
}

func TestBuildFilters_ScalarRoundTrip(t *testing.T) {
	fields := Filters{
		"species":        "DOG",
		"status":         "OPEN_TO_ADOPTION",
		"pickUpLocation": "Meaux",
	}
	got := BuildFilters(fields)

	clauses := strings.Split(got, " AND ")
	if len(clauses) != len(fields) {
		t.Fatalf("expected %d clauses, got %d in %q", len(fields), len(clauses), got)
	}
	seen := make(map[string]bool)
	for _, clause := range clauses {
		name, _, ok := strings.Cut(clause, " = ")
		if !ok {
			t.Fatalf("clause %q is not a field atom", clause)
		}
		if seen[name] {
			t.Fatalf("field %q emitted twice in %q", name, got)
		}
		seen[name] = true
		if _, present := fields[name]; !present {
			t.Fatalf("unexpected field %q in %q", name, got)
		}
	}
}

func TestBuildFilters_SkipsAbsentValues(t *testing.T) {
	if got := BuildFilters(Filters{}); got != "" {
		t.Fatalf("empty mapping must produce no filter, got %q", got)
	}
	got := BuildFilters(Filters{
		"x": nil,
		"y": "",
		"z": []string{},
	})
	if got != "" {
		t.Fatalf("absent values must be skipped, got %q", got)
	}
}

func TestBuildFilters_SkippedValueDoesNotLeaveDanglingAND(t *testing.T) {
	got := BuildFilters(Filters{"species": "CAT", "status": nil})
	if got != `species = "CAT"` {
		t.Fatalf("BuildFilters() = %q, want %q", got, `species = "CAT"`)
	}
}

func TestBuildFilters_BoolAndClause(t *testing.T) {
	got := BuildFilters(Filters{
		"isDisabled":         false,
		"birthdateTimestamp": Clause("birthdateTimestamp 100 TO 200"),
	})
	want := `birthdateTimestamp 100 TO 200 AND isDisabled = false`
	if got != want {
		t.Fatalf("BuildFilters() = %q, want %q", got, want)
	}
}

func TestBuildFilters_Deterministic(t *testing.T) {
	fields := Filters{"b": "2", "a": "1", "c": "3"}
	first := BuildFilters(fields)
	for i := 0; i < 10; i++ {
		if got := BuildFilters(fields); got != first {
			t.Fatalf("output is not deterministic: %q vs %q", got, first)
		}
	}
	if first != `a = "1" AND b = "2" AND c = "3"` {
		t.Fatalf("unexpected clause order: %q", first)
	}
}
