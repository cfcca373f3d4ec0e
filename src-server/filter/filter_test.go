package filter_test

import (
	"roam/src-server/filter"
	"roam/src-server/model"
	"testing"
)

func ids(events []model.Event) []string {
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.ID
	}
	return out
}

func sameIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var testCatalog = []model.Event{
	{ID: "workshop-a", Title: "Workshop A", Date: "2024-01-05", City: "Long Beach", Address: "123 Ocean Blvd", Program: "Education"},
	{ID: "fair-b", Title: "Fair B", Date: "2024-03-10", City: "Torrance", Address: "456 Carson St", Program: "Health"},
}

func TestApplyBuckets(t *testing.T) {
	today := "2024-02-01"

	// default criteria: upcoming only
	got := filter.Apply(testCatalog, filter.Criteria{}, today)
	if !sameIDs(ids(got), []string{"fair-b"}) {
		t.Error("default upcoming bucket wrong:", ids(got))
	}

	// past bucket
	got = filter.Apply(testCatalog, filter.Criteria{ShowPast: true}, today)
	if !sameIDs(ids(got), []string{"workshop-a"}) {
		t.Error("past bucket wrong:", ids(got))
	}

	// month filter within the upcoming bucket
	got = filter.Apply(testCatalog, filter.Criteria{Month: "03"}, today)
	if !sameIDs(ids(got), []string{"fair-b"}) {
		t.Error("month 03 should return fair-b:", ids(got))
	}
	got = filter.Apply(testCatalog, filter.Criteria{Month: "01"}, today)
	if len(got) != 0 {
		t.Error("month 01 under upcoming bucket should be empty:", ids(got))
	}
}

func TestApplyCriteria(t *testing.T) {
	today := "2023-12-01" // everything upcoming

	cases := []struct {
		name     string
		criteria filter.Criteria
		want     []string
	}{
		{"no filters", filter.Criteria{}, []string{"workshop-a", "fair-b"}},
		{"program exact", filter.Criteria{Program: "Health"}, []string{"fair-b"}},
		{"program is exact match only", filter.Criteria{Program: "health"}, nil},
		{"query city case-insensitive", filter.Criteria{Query: "long beach"}, []string{"workshop-a"}},
		{"query matches address", filter.Criteria{Query: "carson"}, []string{"fair-b"}},
		{"query no match", filter.Criteria{Query: "pasadena"}, nil},
		{"month and program combined", filter.Criteria{Month: "03", Program: "Education"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(filter.Apply(testCatalog, tc.criteria, today))
			if !sameIDs(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplySortsByDateStable(t *testing.T) {
	catalog := []model.Event{
		{ID: "c", Date: "2024-05-01", City: "A"},
		{ID: "a", Date: "2024-04-01", City: "A"},
		{ID: "b1", Date: "2024-04-15", City: "A"},
		{ID: "b2", Date: "2024-04-15", City: "A"},
	}
	got := ids(filter.Apply(catalog, filter.Criteria{}, "2024-01-01"))
	if !sameIDs(got, []string{"a", "b1", "b2", "c"}) {
		t.Error("expected ascending date with stable ties, got", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	criteria := filter.Criteria{Query: "beach"}
	today := "2023-12-01"

	first := ids(filter.Apply(testCatalog, criteria, today))
	second := ids(filter.Apply(testCatalog, criteria, today))
	if !sameIDs(first, second) {
		t.Error("same criteria must yield same ordered result")
	}
}

func TestApplyEmptyCatalog(t *testing.T) {
	got := filter.Apply(nil, filter.Criteria{}, "2024-01-01")
	if len(got) != 0 {
		t.Error("empty catalog must yield empty result")
	}
}
