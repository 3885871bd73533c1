// Package filter derives the visible, sorted standards list and the facet
// counts from a record set and the active predicate state.
package filter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/protek/protek/pkg/standards"
)

// Options are the inputs to Derive that are not predicate state.
type Options struct {
	NewStandardsDays int
	Now              time.Time
}

// View is everything a presentation layer needs to render one frame.
type View struct {
	Standards []standards.Standard `json:"standards"`

	// CategoryCounts honours only the deprecated gate.
	CategoryCounts map[string]int `json:"categoryCounts"`
	// ImpactCounts honours the deprecated and category gates and always has
	// an entry for every known impact.
	ImpactCounts map[standards.Impact]int `json:"impactCounts"`

	NewCount     int `json:"newCount"`
	TotalVisible int `json:"totalVisible"`
	PercentNew   int `json:"percentNew"`

	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	RecommendedBy []string `json:"recommendedBy"`

	HasActiveFilters bool     `json:"hasActiveFilters"`
	ViewMode         ViewMode `json:"viewMode"`
}

// FilteredCount is the number of records that passed every gate.
func (v View) FilteredCount() int { return len(v.Standards) }

// Derive is a pure function of its inputs. It never fails: an empty record
// set yields an empty list and zero counts.
func Derive(records []standards.Standard, st State, opts Options) View {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	p := newPredicate(st, opts.NewStandardsDays, now)

	v := View{
		Standards:        []standards.Standard{},
		CategoryCounts:   map[string]int{},
		ImpactCounts:     map[standards.Impact]int{},
		HasActiveFilters: st.HasActiveFilters(),
		ViewMode:         st.ViewMode,
	}
	if v.ViewMode == "" {
		v.ViewMode = ViewCard
	}
	for _, i := range standards.Impacts {
		v.ImpactCounts[i] = 0
	}

	for _, s := range records {
		deprecated := standards.IsDeprecated(s)
		if !p.deprecatedGate(deprecated) {
			continue
		}

		v.TotalVisible++
		v.CategoryCounts[s.Cat]++

		if p.categoryGate(s) {
			if _, known := v.ImpactCounts[s.Impact]; known {
				v.ImpactCounts[s.Impact]++
			}
		}

		if p.match(s, deprecated) {
			v.Standards = append(v.Standards, s)
			if p.isNew(s) {
				v.NewCount++
			}
		}
	}

	sortByAddedDate(v.Standards)

	if v.TotalVisible > 0 {
		v.PercentNew = int(math.Round(float64(v.NewCount) / float64(v.TotalVisible) * 100))
	}

	v.Categories, v.Tags, v.RecommendedBy = Enumerate(records)
	return v
}

// Enumerate lists the distinct categories, tags and recommenders in records,
// each sorted. Empty categories are left out. Deprecated records are included.
func Enumerate(records []standards.Standard) (categories, tags, recommendedBy []string) {
	var cats, tgs, recs Set
	for _, s := range records {
		if s.Cat != "" {
			cats.Add(s.Cat)
		}
		for _, t := range s.Tag {
			tgs.Add(t)
		}
		for _, r := range s.RecommendedBy {
			recs.Add(r)
		}
	}
	return cats.Sorted(), tgs.Sorted(), recs.Sorted()
}

// Match reports whether s passes every gate of st.
func Match(s standards.Standard, st State, opts Options) bool {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return newPredicate(st, opts.NewStandardsDays, now).match(s, standards.IsDeprecated(s))
}

type predicate struct {
	st    State
	query string
	days  int
	now   time.Time
}

func newPredicate(st State, days int, now time.Time) predicate {
	return predicate{
		st:    st,
		query: strings.ToLower(strings.TrimSpace(st.SearchQuery)),
		days:  days,
		now:   now,
	}
}

func (p predicate) deprecatedGate(deprecated bool) bool {
	return p.st.ShowDeprecated || !deprecated
}

func (p predicate) categoryGate(s standards.Standard) bool {
	return p.st.SelectedCategories.Len() == 0 || p.st.SelectedCategories.Has(s.Cat)
}

func (p predicate) isNew(s standards.Standard) bool {
	return standards.IsNew(s, p.now, p.days)
}

func (p predicate) match(s standards.Standard, deprecated bool) bool {
	if !p.deprecatedGate(deprecated) {
		return false
	}
	if p.query != "" && !strings.Contains(searchable(s), p.query) {
		return false
	}
	if p.st.SelectedImpacts.Len() > 0 && !p.st.SelectedImpacts.Has(string(s.Impact)) {
		return false
	}
	if !p.categoryGate(s) {
		return false
	}
	if p.st.SelectedTags.Len() > 0 && !p.st.SelectedTags.HasAny(s.Tag) {
		return false
	}
	if p.st.SelectedRecommendedBy.Len() > 0 && !p.st.SelectedRecommendedBy.HasAny(s.RecommendedBy) {
		return false
	}
	if p.st.ShowNewOnly && !p.isNew(s) {
		return false
	}
	return true
}

func searchable(s standards.Standard) string {
	return strings.ToLower(s.Label + " " + s.HelpText + " " + s.ExecutiveText + " " + s.DocsDescription)
}

// sortByAddedDate orders newest first; undated records go last and ties keep
// their input order.
func sortByAddedDate(list []standards.Standard) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].AddedDate, list[j].AddedDate
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}
