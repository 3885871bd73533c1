package syncer

import (
	"testing"
	"time"

	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/storage"
)

func TestDiff(t *testing.T) {
	at := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	prev := []standards.Standard{
		{Name: "a", Label: "A"},
		{Name: "b", Label: "B"},
		{Name: "c", Label: "C"},
	}
	next := []standards.Standard{
		{Name: "d", Label: "D", Cat: "Teams Standards"},
		{Name: "b", Label: "B renamed"},
		{Name: "a", Label: "A"},
	}

	got := Diff(prev, next, at)
	want := []struct {
		name string
		typ  storage.ChangeType
	}{
		{"d", storage.ChangeAdded},
		{"b", storage.ChangeUpdated},
		{"c", storage.ChangeRemoved},
	}
	if len(got) != len(want) {
		t.Fatalf("Diff returned %d changes, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].ChangeType != w.typ {
			t.Errorf("change %d = %s/%s, want %s/%s", i, got[i].Name, got[i].ChangeType, w.name, w.typ)
		}
		if !got[i].OccurredAt.Equal(at) {
			t.Errorf("change %d at %v", i, got[i].OccurredAt)
		}
	}
	if got[0].Category != "Teams Standards" {
		t.Errorf("added change category = %q", got[0].Category)
	}
}

func TestDiffIdentical(t *testing.T) {
	set := []standards.Standard{{Name: "a", Tag: []string{"x"}}}
	if got := Diff(set, set, time.Now()); len(got) != 0 {
		t.Errorf("expected no changes, got %+v", got)
	}
}
