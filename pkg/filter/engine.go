package filter

import (
	"sync"
	"time"

	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/standards"
)

// Source supplies the current record set and a version that changes whenever
// the set is replaced. *standards.Store satisfies it.
type Source interface {
	Snapshot() ([]standards.Standard, uint64)
}

// Engine owns the predicate state for one session. Setters are the only way to
// change it; View recomputes from whatever record set Source currently holds,
// so the state survives a record-set swap.
type Engine struct {
	mu     sync.Mutex
	source Source
	days   int
	now    func() time.Time

	state State
	gen   uint64

	cached    View
	cachedKey cacheKey
	hasCache  bool
}

type cacheKey struct {
	version uint64
	gen     uint64
	day     string
}

func NewEngine(source Source, cfg config.Config) *Engine {
	days := cfg.NewStandardsDays
	if days <= 0 {
		days = config.DefaultNewStandardsDays
	}
	return &Engine{
		source: source,
		days:   days,
		now:    time.Now,
		state:  NewState(),
	}
}

// SetClock replaces the time source used for the freshness window.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.hasCache = false
}

// State returns a copy of the current predicates.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View returns the derived view, reusing the previous result when neither the
// record set, the predicates nor the calendar day changed. The result is
// shared between calls and must not be modified.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, version := e.source.Snapshot()
	now := e.now()
	key := cacheKey{version: version, gen: e.gen, day: now.Format("2006-01-02")}
	if e.hasCache && key == e.cachedKey {
		return e.cached
	}

	e.cached = Derive(records, e.state, Options{NewStandardsDays: e.days, Now: now})
	e.cachedKey = key
	e.hasCache = true
	return e.cached
}

func (e *Engine) update(fn func(st *State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.state)
	e.gen++
}

func (e *Engine) SetSearchQuery(q string) {
	e.update(func(st *State) { st.SearchQuery = q })
}

func (e *Engine) ToggleImpact(impact standards.Impact) {
	e.update(func(st *State) { st.ToggleImpact(impact) })
}

// ToggleCategory flips one category; AllCategories clears the selection.
func (e *Engine) ToggleCategory(cat string) {
	e.update(func(st *State) { st.ToggleCategory(cat) })
}

func (e *Engine) ToggleTag(tag string) {
	e.update(func(st *State) { st.ToggleTag(tag) })
}

func (e *Engine) ToggleRecommendedBy(rec string) {
	e.update(func(st *State) { st.ToggleRecommendedBy(rec) })
}

func (e *Engine) SetShowDeprecated(v bool) {
	e.update(func(st *State) { st.ShowDeprecated = v })
}

func (e *Engine) SetShowNewOnly(v bool) {
	e.update(func(st *State) { st.ShowNewOnly = v })
}

func (e *Engine) SetViewMode(m ViewMode) {
	e.update(func(st *State) { st.ViewMode = m })
}
