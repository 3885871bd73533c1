package filter

import (
	"fmt"
	"strings"

	"github.com/protek/protek/pkg/standards"
)

// ViewMode only affects presentation; it never changes what is filtered.
type ViewMode string

const (
	ViewCard  ViewMode = "card"
	ViewTable ViewMode = "table"
)

// ParseViewMode accepts "card" and "table" (case-insensitive). Empty means card.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ViewCard):
		return ViewCard, nil
	case string(ViewTable):
		return ViewTable, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want card or table)", s)
}

// AllCategories is the sentinel that resets the category selection.
const AllCategories = ""

// State is the set of active predicates. An empty set means the axis does not
// constrain anything.
type State struct {
	SearchQuery           string
	SelectedImpacts       Set
	SelectedCategories    Set
	SelectedTags          Set
	SelectedRecommendedBy Set
	ShowDeprecated        bool
	ShowNewOnly           bool
	ViewMode              ViewMode
}

// NewState returns the initial state: nothing selected, deprecated hidden,
// card view.
func NewState() State {
	return State{ViewMode: ViewCard}
}

// Clone returns a deep copy so callers can keep a snapshot while the original
// keeps changing.
func (s State) Clone() State {
	c := s
	c.SelectedImpacts = s.SelectedImpacts.Clone()
	c.SelectedCategories = s.SelectedCategories.Clone()
	c.SelectedTags = s.SelectedTags.Clone()
	c.SelectedRecommendedBy = s.SelectedRecommendedBy.Clone()
	return c
}

// HasActiveFilters reports whether anything besides the deprecated toggle
// narrows the view.
func (s State) HasActiveFilters() bool {
	return s.SearchQuery != "" ||
		s.SelectedImpacts.Len() > 0 ||
		s.SelectedCategories.Len() > 0 ||
		s.SelectedTags.Len() > 0 ||
		s.SelectedRecommendedBy.Len() > 0 ||
		s.ShowNewOnly
}

// ToggleCategory flips one category; AllCategories clears the selection.
func (s *State) ToggleCategory(cat string) {
	if cat == AllCategories {
		s.SelectedCategories.Clear()
		return
	}
	s.SelectedCategories.Toggle(cat)
}

func (s *State) ToggleImpact(impact standards.Impact) {
	s.SelectedImpacts.Toggle(string(impact))
}

func (s *State) ToggleTag(tag string) {
	s.SelectedTags.Toggle(tag)
}

func (s *State) ToggleRecommendedBy(rec string) {
	s.SelectedRecommendedBy.Toggle(rec)
}
