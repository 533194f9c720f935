package query

import (
	"testing"
	"time"
)

func sampleMeta() map[string]any {
	return map[string]any{
		"title":    "Getting Started",
		"category": "guide",
		"weight":   float64(10),
		"date":     "2024-05-10",
		"tags":     []any{"go", "markdown"},
		"author": map[string]any{
			"name": "ana",
			"team": "docs",
		},
	}
}

func TestFilterMatchesComparisons(t *testing.T) {
	cases := []struct {
		name  string
		f     filter
		match bool
	}{
		{"eq string", filter{"category", Eq, "guide"}, true},
		{"eq mismatch", filter{"category", Eq, "blog"}, false},
		{"eq missing field", filter{"missing", Eq, "x"}, false},
		{"ne", filter{"category", Ne, "blog"}, true},
		{"ne missing field matches", filter{"missing", Ne, "x"}, true},
		{"gt numeric", filter{"weight", Gt, 5}, true},
		{"gt equal", filter{"weight", Gt, 10}, false},
		{"gte equal", filter{"weight", Gte, 10}, true},
		{"lt", filter{"weight", Lt, 20}, true},
		{"lte", filter{"weight", Lte, 10}, true},
		{"in", filter{"category", In, []any{"blog", "guide"}}, true},
		{"in typed slice", filter{"category", In, []string{"blog", "guide"}}, true},
		{"in miss", filter{"category", In, []any{"blog"}}, false},
		{"nin", filter{"category", Nin, []any{"blog"}}, true},
		{"nin hit", filter{"category", Nin, []any{"guide"}}, false},
		{"nin missing field matches", filter{"missing", Nin, []any{"x"}}, true},
		{"contains substring", filter{"title", Contains, "Started"}, true},
		{"contains substring miss", filter{"title", Contains, "Finished"}, false},
		{"contains list member", filter{"tags", Contains, "go"}, true},
		{"contains list miss", filter{"tags", Contains, "rust"}, false},
		{"exists", filter{"category", Exists, true}, true},
		{"exists false", filter{"missing", Exists, false}, true},
		{"exists miss", filter{"missing", Exists, true}, false},
		{"dotted path", filter{"author.name", Eq, "ana"}, true},
		{"dotted miss", filter{"author.email", Exists, true}, false},
		{"dotted through scalar", filter{"title.inner", Exists, true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.matches(sampleMeta()); got != tc.match {
				t.Fatalf("expected match=%v, got %v", tc.match, got)
			}
		})
	}
}

func TestCompareValues(t *testing.T) {
	if compareValues(int(3), float64(10)) >= 0 {
		t.Fatal("expected numeric comparison across int and float")
	}
	if compareValues("2024-01-01", "2024-05-10") >= 0 {
		t.Fatal("expected chronological comparison for date strings")
	}
	if compareValues(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "2024-05-10") <= 0 {
		t.Fatal("expected time.Time compared against date string")
	}
	if compareValues("banana", "apple") <= 0 {
		t.Fatal("expected lexical fallback")
	}
	if compareValues(nil, "") != 0 {
		t.Fatal("expected nil to stringify empty")
	}
	// mixed numeric and string falls through to lexical
	if compareValues(2, "10") == compareValues(2, 10) {
		t.Fatal("expected lexical ordering when only one side is numeric")
	}
}

func TestLookupField(t *testing.T) {
	meta := sampleMeta()

	value, ok := lookupField(meta, "author.team")
	if !ok || value != "docs" {
		t.Fatalf("expected nested lookup, got %v ok=%v", value, ok)
	}
	if _, ok := lookupField(meta, "author.team.deep"); ok {
		t.Fatal("expected lookup through a scalar to fail")
	}
	if _, ok := lookupField(nil, "title"); ok {
		t.Fatal("expected nil meta lookup to fail")
	}
}
