package filter

import (
	"fmt"
	"strings"

	"github.com/protek/protek/pkg/standards"
)

// Query is the flat, string-typed form of State used by command-line flags
// and URL parameters.
type Query struct {
	Search        string
	Impacts       []string
	Categories    []string
	Tags          []string
	RecommendedBy []string
	Deprecated    bool
	NewOnly       bool
	View          string
}

// State converts q, rejecting unknown impacts and view modes. Impacts may be
// given in full ("High Impact") or by their first word ("high").
func (q Query) State() (State, error) {
	st := NewState()
	st.SearchQuery = q.Search
	st.ShowDeprecated = q.Deprecated
	st.ShowNewOnly = q.NewOnly

	mode, err := ParseViewMode(q.View)
	if err != nil {
		return State{}, err
	}
	st.ViewMode = mode

	for _, raw := range q.Impacts {
		impact, err := ParseImpact(raw)
		if err != nil {
			return State{}, err
		}
		st.SelectedImpacts.Add(string(impact))
	}
	for _, c := range q.Categories {
		if c != AllCategories {
			st.SelectedCategories.Add(c)
		}
	}
	for _, t := range q.Tags {
		st.SelectedTags.Add(t)
	}
	for _, r := range q.RecommendedBy {
		st.SelectedRecommendedBy.Add(r)
	}
	return st, nil
}

func ParseImpact(s string) (standards.Impact, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, i := range standards.Impacts {
		full := strings.ToLower(string(i))
		if v == full || v == strings.Fields(full)[0] {
			return i, nil
		}
	}
	return "", fmt.Errorf("unknown impact %q (want high, medium or low)", s)
}
