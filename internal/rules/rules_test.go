package rules

import (
	"testing"

	"crate/internal/config"
	"crate/internal/library"
)

func testTable() Table {
	return NewTable([]config.Interval{
		{Name: "2020s", Start: 2020, End: 2029},
		{Name: "2010s", Start: 2010, End: 2019},
		{Name: "Classics", Start: 0, End: 2009},
	})
}

func TestClassify(t *testing.T) {
	table := testTable()
	cases := []struct {
		year int
		want string
		ok   bool
	}{
		{2024, "2020s", true},
		{2020, "2020s", true},
		{2019, "2010s", true},
		{2010, "2010s", true},
		{2009, "Classics", true},
		{1964, "Classics", true},
		{0, "", false},
		{-3, "", false},
	}
	for _, tc := range cases {
		got, ok := table.Classify(library.Track{ReleaseYear: tc.year})
		if got != tc.want || ok != tc.ok {
			t.Errorf("Classify(year=%d) = (%q, %v), want (%q, %v)", tc.year, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	table := NewTable([]config.Interval{
		{Name: "First", Start: 2000, End: 2020},
		{Name: "Second", Start: 2010, End: 2015},
	})
	got, ok := table.Classify(library.Track{ReleaseYear: 2012})
	if !ok || got != "First" {
		t.Fatalf("Classify = (%q, %v), want First per table order", got, ok)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	table := testTable()
	track := library.Track{ReleaseYear: 2015}
	first, _ := table.Classify(track)
	second, _ := table.Classify(track)
	if first != second {
		t.Fatalf("Classify not deterministic: %q vs %q", first, second)
	}
}

func TestNamesPreserveOrder(t *testing.T) {
	names := testTable().Names()
	want := []string{"2020s", "2010s", "Classics"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}
