package syncer

import (
	"reflect"
	"time"

	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/storage"
)

// Diff lists the standards added, changed or dropped going from prev to next.
// Added and updated entries follow next's order; removed ones follow prev's.
func Diff(prev, next []standards.Standard, at time.Time) []storage.Change {
	before := make(map[string]standards.Standard, len(prev))
	for _, s := range prev {
		before[s.Name] = s
	}
	after := standards.Names(next)

	var changes []storage.Change
	for _, s := range next {
		old, ok := before[s.Name]
		switch {
		case !ok:
			changes = append(changes, change(s, storage.ChangeAdded, at))
		case !reflect.DeepEqual(old, s):
			changes = append(changes, change(s, storage.ChangeUpdated, at))
		}
	}
	for _, s := range prev {
		if _, ok := after[s.Name]; !ok {
			changes = append(changes, change(s, storage.ChangeRemoved, at))
		}
	}
	return changes
}

func change(s standards.Standard, t storage.ChangeType, at time.Time) storage.Change {
	return storage.Change{
		OccurredAt: at,
		Name:       s.Name,
		Label:      s.Label,
		Category:   s.Cat,
		ChangeType: t,
	}
}
