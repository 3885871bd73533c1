package storage

import "time"

type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeUpdated ChangeType = "updated"
	ChangeRemoved ChangeType = "removed"
)

// Change records one standard that appeared, changed or disappeared between
// two record sets.
type Change struct {
	OccurredAt time.Time  `json:"occurredAt"`
	Name       string     `json:"name"`
	Label      string     `json:"label,omitempty"`
	Category   string     `json:"category,omitempty"`
	ChangeType ChangeType `json:"changeType"`
}
