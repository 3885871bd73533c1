package filter

import (
	"testing"

	"github.com/protek/protek/pkg/standards"
)

func TestQueryState(t *testing.T) {
	st, err := Query{
		Search:        "mfa",
		Impacts:       []string{"high", "Medium Impact"},
		Categories:    []string{"Entra (AAD) Standards", AllCategories},
		Tags:          []string{"CIS"},
		RecommendedBy: []string{"CIPP"},
		Deprecated:    true,
		View:          "TABLE",
	}.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.SearchQuery != "mfa" || !st.ShowDeprecated || st.ShowNewOnly {
		t.Errorf("unexpected scalars: %+v", st)
	}
	if st.ViewMode != ViewTable {
		t.Errorf("ViewMode = %q", st.ViewMode)
	}
	if !st.SelectedImpacts.Has(string(standards.HighImpact)) || !st.SelectedImpacts.Has(string(standards.MediumImpact)) || st.SelectedImpacts.Len() != 2 {
		t.Errorf("impacts = %v", st.SelectedImpacts.Sorted())
	}
	if st.SelectedCategories.Len() != 1 {
		t.Errorf("categories = %v", st.SelectedCategories.Sorted())
	}
	if !st.SelectedTags.Has("CIS") || !st.SelectedRecommendedBy.Has("CIPP") {
		t.Errorf("tags/recommendedBy not set")
	}
}

func TestQueryStateErrors(t *testing.T) {
	tests := []Query{
		{Impacts: []string{"extreme"}},
		{Impacts: []string{""}},
		{View: "grid"},
	}
	for _, q := range tests {
		if _, err := q.State(); err == nil {
			t.Errorf("expected error for %+v", q)
		}
	}
}

func TestQueryStateEmpty(t *testing.T) {
	st, err := Query{}.State()
	if err != nil {
		t.Fatal(err)
	}
	if st.HasActiveFilters() || st.ViewMode != ViewCard {
		t.Errorf("empty query should be the initial state, got %+v", st)
	}
}
