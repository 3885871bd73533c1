package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/syncer"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func testModel(s Syncer) (Model, *filter.Engine, *standards.Store) {
	store := standards.NewStore([]standards.Standard{
		{Name: "mfa", Label: "Require MFA", Cat: "Entra", Impact: standards.HighImpact, AddedDate: "2026-10-10", Tag: []string{"CIS"}, HelpText: "Requires **MFA** for [all users](https://learn.microsoft.com/mfa)."},
		{Name: "audit", Label: "Enable audit log", Cat: "Global", Impact: standards.LowImpact, AddedDate: "2021-01-01", RecommendedBy: []string{"CIPP"}},
		{Name: "legacy", Label: "Legacy (Deprecated)", Cat: "Entra", Impact: standards.MediumImpact, AddedDate: "2026-10-14"},
	})
	engine := filter.NewEngine(store, config.Default())
	engine.SetClock(func() time.Time { return testNow })
	m := New(engine, config.Default(), s)
	m.now = func() time.Time { return testNow }
	return m, engine, store
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleKeys(t *testing.T) {
	m, engine, _ := testModel(nil)

	m = press(t, m, "1", "d", "n", "v")
	st := engine.State()
	if !st.SelectedImpacts.Has(string(standards.HighImpact)) {
		t.Errorf("impact not toggled: %v", st.SelectedImpacts.Sorted())
	}
	if !st.ShowDeprecated || !st.ShowNewOnly || st.ViewMode != filter.ViewTable {
		t.Errorf("unexpected state %+v", st)
	}

	m = press(t, m, "1", "d", "n", "v")
	st = engine.State()
	if st.HasActiveFilters() || st.ShowDeprecated || st.ViewMode != filter.ViewCard {
		t.Errorf("toggles did not revert: %+v", st)
	}
}

func TestCategoryCycle(t *testing.T) {
	m, engine, _ := testModel(nil)

	want := [][]string{{"Entra"}, {"Global"}, nil}
	for i, w := range want {
		m = press(t, m, "c")
		got := engine.State().SelectedCategories.Sorted()
		if strings.Join(got, ",") != strings.Join(w, ",") {
			t.Errorf("press %d: categories = %v, want %v", i+1, got, w)
		}
	}
}

func TestNextValue(t *testing.T) {
	values := []string{"a", "b"}
	if got := nextValue(values, filter.NewSet()); got != "a" {
		t.Errorf("empty -> %q", got)
	}
	if got := nextValue(values, filter.NewSet("a")); got != "b" {
		t.Errorf("a -> %q", got)
	}
	if got := nextValue(values, filter.NewSet("b")); got != "" {
		t.Errorf("b -> %q", got)
	}
	if got := nextValue(values, filter.NewSet("a", "b")); got != "" {
		t.Errorf("multi -> %q", got)
	}
	if got := nextValue(nil, filter.NewSet()); got != "" {
		t.Errorf("no values -> %q", got)
	}
}

func TestSearchInput(t *testing.T) {
	m, engine, _ := testModel(nil)

	m = press(t, m, "/", "a", "u", "d")
	if !m.inputMode {
		t.Fatal("expected input mode")
	}
	if q := engine.State().SearchQuery; q != "aud" {
		t.Fatalf("search = %q", q)
	}
	if n := engine.View().FilteredCount(); n != 1 {
		t.Errorf("filtered = %d, want 1", n)
	}

	// keys typed while searching must not toggle filters
	m = press(t, m, "1")
	if engine.State().SelectedImpacts.Len() != 0 {
		t.Error("impact toggled while typing")
	}

	m = press(t, m, "enter")
	if m.inputMode {
		t.Error("enter should leave input mode")
	}
}

func TestCursorAndDetail(t *testing.T) {
	m, _, _ := testModel(nil)

	m = press(t, m, "j", "j", "j")
	s, ok := m.Selected()
	if !ok || s.Name != "audit" {
		t.Fatalf("selected %v %v, want audit (cursor clamps)", s.Name, ok)
	}

	m = press(t, m, "k", "enter")
	if !m.detail {
		t.Fatal("enter should open details")
	}
	out := m.View()
	if !strings.Contains(out, "Require MFA") || !strings.Contains(out, "learn.microsoft.com/mfa") {
		t.Errorf("detail view missing content:\n%s", out)
	}

	m = press(t, m, "esc")
	if m.detail {
		t.Error("any key should close details")
	}
}

func TestViewRendersCounts(t *testing.T) {
	m, _, _ := testModel(nil)
	out := m.View()
	for _, want := range []string{"Showing 2 of 2 standards", "New 1 (50%)", "Require MFA", "NEW"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

type stubSyncer struct {
	err   error
	state syncer.State
	calls int
}

func (s *stubSyncer) Sync(context.Context) error { s.calls++; return s.err }
func (s *stubSyncer) State() syncer.State        { return s.state }

func TestSyncKey(t *testing.T) {
	sy := &stubSyncer{err: errors.New("HTTP 500"), state: syncer.State{Err: "HTTP 500"}}
	m, _, store := testModel(sy)
	before := store.Version()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(Model)
	if !m.syncing || cmd == nil {
		t.Fatal("s should start a sync")
	}

	// a second press while syncing does nothing
	if _, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}); cmd2 != nil {
		t.Error("sync started twice")
	}

	next, _ = m.Update(runSync(sy)())
	m = next.(Model)
	if m.syncing {
		t.Error("syncing flag not cleared")
	}
	if sy.calls != 1 {
		t.Errorf("Sync called %d times", sy.calls)
	}
	if store.Version() != before {
		t.Error("failed sync must not touch the store")
	}
	if !strings.Contains(m.View(), "sync failed: HTTP 500") {
		t.Error("sync error not shown")
	}
}

func TestRefreshAfterSwap(t *testing.T) {
	m, engine, store := testModel(nil)
	m = press(t, m, "1")

	store.Replace([]standards.Standard{
		{Name: "new", Label: "New high", Cat: "Teams", Impact: standards.HighImpact, AddedDate: "2026-10-15"},
	})
	next, _ := m.Update(syncDoneMsg{})
	m = next.(Model)

	if !engine.State().SelectedImpacts.Has(string(standards.HighImpact)) {
		t.Error("filters must survive a record swap")
	}
	if s, ok := m.Selected(); !ok || s.Name != "new" {
		t.Errorf("selected %v after swap", s.Name)
	}
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(10, 0)
	if l.Width != MinViewportWidth || l.Height != DefaultHeight {
		t.Errorf("layout %+v", l)
	}
	if l.CardsShown < 1 {
		t.Errorf("CardsShown = %d", l.CardsShown)
	}
}
