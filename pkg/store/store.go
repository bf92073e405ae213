// Package store persists computed distance sets keyed by map identity and
// loads them back for tour requests.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no distance set has been persisted
// for the requested map ID.
var ErrNotFound = errors.New("store: no distance set for map")

// IsNotFound reports whether err is a dataset-not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Record is one persisted landmark distance. A Distance of -1 means no path
// exists between the two landmarks; such records are stored, never omitted.
// IDs are always strings on the wire.
type Record struct {
	FromID   string `json:"from_id"`
	ToID     string `json:"to_id"`
	Distance int    `json:"distance"`
}

// DistanceStore is the persistence port for distance sets. Save overwrites
// any prior set for the map ID (last-write-wins); Load fails with ErrNotFound
// when no set exists.
type DistanceStore interface {
	Save(ctx context.Context, mapID string, records []Record) error
	Load(ctx context.Context, mapID string) ([]Record, error)
}

type pairKey struct {
	from string
	to   string
}

// Set is an in-memory unordered-pair lookup over a loaded distance set.
// A query for (A, B) also matches a record stored as (B, A).
type Set struct {
	distances map[pairKey]int
}

// NewSet indexes records for lookup. Records are stored as-is; direction
// handling happens at query time.
func NewSet(records []Record) *Set {
	s := &Set{distances: make(map[pairKey]int, len(records))}
	for _, r := range records {
		s.distances[pairKey{from: r.FromID, to: r.ToID}] = r.Distance
	}
	return s
}

// Get returns the stored distance for the unordered pair (a, b).
func (s *Set) Get(a, b string) (int, bool) {
	if d, ok := s.distances[pairKey{from: a, to: b}]; ok {
		return d, true
	}
	d, ok := s.distances[pairKey{from: b, to: a}]
	return d, ok
}

// Len returns the number of stored records.
func (s *Set) Len() int { return len(s.distances) }
