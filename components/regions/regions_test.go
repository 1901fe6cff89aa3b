package regions

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadRegions_DedupesSortsAndIgnoresComments(t *testing.T) {
	input := strings.NewReader(`
# code|name|kind
KA|Karnataka|state
DL|Delhi|ut
ka|Karnataka again|state

AS|Assam|state
`)

	regions, err := LoadRegions(input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []Region{
		{Code: "AS", Name: "Assam", Kind: KindState},
		{Code: "DL", Name: "Delhi", Kind: KindUT},
		{Code: "KA", Name: "Karnataka", Kind: KindState},
	}
	if diff := cmp.Diff(want, regions); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRegions_RejectsMalformedLines(t *testing.T) {
	for _, input := range []string{"KA|Karnataka", "KA|Karnataka|province"} {
		if _, err := LoadRegions(strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestDefaultRegions_StatesAndUnionTerritories(t *testing.T) {
	regions, err := DefaultRegions()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	counts := map[Kind]int{}
	for _, r := range regions {
		counts[r.Kind]++
	}
	if counts[KindState] != 28 || counts[KindUT] != 8 {
		t.Fatalf("expected 28 states and 8 union territories, got %v", counts)
	}
}

func TestFilter_PrefixBeforeContains(t *testing.T) {
	regions, err := DefaultRegions()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := Names(Filter(regions, Query{Text: "pradesh", Limit: 10}))
	want := []string{"Andhra Pradesh", "Arunachal Pradesh", "Himachal Pradesh", "Madhya Pradesh", "Uttar Pradesh"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("contains search mismatch (-want +got):\n%s", diff)
	}

	got = Names(Filter(regions, Query{Text: "ma", Limit: 10}))
	want = []string{
		"Madhya Pradesh", "Maharashtra", "Manipur",
		"Andaman and Nicobar Islands", "Dadra and Nagar Haveli and Daman and Diu", "Himachal Pradesh",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranked search mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_MatchesCode(t *testing.T) {
	regions, err := DefaultRegions()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := Filter(regions, Query{Text: "tn", Limit: 5})
	if len(got) != 1 || got[0].Name != "Tamil Nadu" {
		t.Fatalf("unexpected results: %#v", got)
	}
}

func TestFilter_KindAndLimit(t *testing.T) {
	regions := []Region{
		{Code: "AS", Name: "Assam", Kind: KindState},
		{Code: "DL", Name: "Delhi", Kind: KindUT},
		{Code: "GA", Name: "Goa", Kind: KindState},
	}

	if diff := cmp.Diff([]string{"Delhi"}, Names(Filter(regions, Query{Kind: KindUT}))); diff != "" {
		t.Fatalf("kind filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Assam"}, Names(Filter(regions, Query{Limit: 1}))); diff != "" {
		t.Fatalf("limit mismatch (-want +got):\n%s", diff)
	}
	if got := Filter(regions, Query{Limit: -1}); got != nil {
		t.Fatalf("negative limit should return nothing, got %#v", got)
	}
}

func TestResolver(t *testing.T) {
	resolve := Resolver()
	states := resolve(ChoiceSource)
	if len(states) != 36 || states[0] != "Andaman and Nicobar Islands" {
		t.Fatalf("unexpected states: %v", states)
	}
	if got := resolve("districts"); got != nil {
		t.Fatalf("unknown source should resolve to nil, got %v", got)
	}

	custom := New(WithRegions([]Region{{Code: "GA", Name: "Goa", Kind: KindState}})).Resolver()
	if diff := cmp.Diff([]string{"Goa"}, custom(ChoiceSource)); diff != "" {
		t.Fatalf("component resolver mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionLabel(t *testing.T) {
	if got := (Region{Name: "Ladakh", Kind: KindUT}).Label(); got != "Ladakh (UT)" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := (Region{Name: "Goa", Kind: KindState}).Label(); got != "Goa" {
		t.Fatalf("unexpected label %q", got)
	}
}
