package domain

import (
	"reflect"
	"testing"
)

func sampleListing() []School {
	return []School{
		{ID: 1, Name: "Oak Hill", City: "Springfield", State: "IL"},
		{ID: 2, Name: "Birch Ave", City: "Ames", State: "IA"},
		{ID: 3, Name: "Cedar Park", City: "Aurora", State: "IL"},
		{ID: 4, Name: "oak valley", City: "Boise", State: "ID"},
	}
}

func names(schools []School) []string {
	out := make([]string, 0, len(schools))
	for _, s := range schools {
		out = append(out, s.Name)
	}
	return out
}

func TestApplySortsByNameWithNoFilters(t *testing.T) {
	got := Apply(sampleListing(), "", SortByName, "")
	want := []string{"Birch Ave", "Cedar Park", "Oak Hill", "oak valley"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("names = %v, want %v", names(got), want)
	}
}

func TestApplySearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := Apply(sampleListing(), "spring", SortByName, "")
	if len(got) != 1 || got[0].Name != "Oak Hill" {
		t.Fatalf("search by city substring: got %v", names(got))
	}

	got = Apply(sampleListing(), "OAK", SortByName, "")
	if want := []string{"Oak Hill", "oak valley"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("search by name substring: got %v, want %v", names(got), want)
	}

	got = Apply(sampleListing(), "ia", SortByName, "")
	if len(got) != 1 || got[0].State != "IA" {
		t.Fatalf("search by state substring: got %v", names(got))
	}
}

func TestApplyStateFilterIsExactAndCaseSensitive(t *testing.T) {
	got := Apply(sampleListing(), "", SortByState, "IL")
	if len(got) != 2 {
		t.Fatalf("state filter IL: got %v", names(got))
	}
	for _, s := range got {
		if s.State != "IL" {
			t.Fatalf("unexpected state %q", s.State)
		}
	}

	if got := Apply(sampleListing(), "", SortByState, "il"); len(got) != 0 {
		t.Fatalf("lowercase state filter should match nothing, got %v", names(got))
	}
}

func TestApplyCombinesSearchAndStateFilter(t *testing.T) {
	got := Apply(sampleListing(), "a", SortByName, "IL")
	// "a" matches every record; the state filter narrows it to IL.
	if want := []string{"Cedar Park", "Oak Hill"}; !reflect.DeepEqual(names(got), want) {
		t.Fatalf("combined filters: got %v, want %v", names(got), want)
	}
}

func TestApplySortIsStableOnTies(t *testing.T) {
	listing := []School{
		{ID: 1, Name: "Oak Hill", City: "Springfield", State: "IL"},
		{ID: 2, Name: "Birch Ave", City: "Ames", State: "IL"},
		{ID: 3, Name: "Cedar Park", City: "Aurora", State: "IL"},
	}
	got := Apply(listing, "", SortByState, "")
	// All states tie; original order must survive.
	if want := []int64{1, 2, 3}; got[0].ID != want[0] || got[1].ID != want[1] || got[2].ID != want[2] {
		t.Fatalf("tie order not preserved: %+v", got)
	}
}

func TestApplyIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	input := sampleListing()
	snapshot := make([]School, len(input))
	copy(snapshot, input)

	first := Apply(input, "oak", SortByCity, "")
	second := Apply(input, "oak", SortByCity, "")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("apply not deterministic: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(Apply(first, "oak", SortByCity, ""), first) {
		t.Fatalf("apply not idempotent")
	}
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatalf("input mutated: %v", input)
	}
}

func TestApplyUnknownSortKeyFallsBackToName(t *testing.T) {
	got := Apply(sampleListing(), "", SortKey("bogus"), "")
	if got[0].Name != "Birch Ave" {
		t.Fatalf("fallback sort: got %v", names(got))
	}
}
