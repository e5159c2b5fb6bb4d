// Package guide holds the published guide snapshot and answers now/next
// queries against it.
package guide

import (
	"sync/atomic"

	"github.com/lolitemaultes/NRTV/internal/models"
)

// Store publishes guide snapshots to concurrent readers. The snapshot swap
// is a single atomic pointer replacement: readers never block on a sync in
// progress and never observe a half-updated guide.
type Store struct {
	current atomic.Pointer[models.Snapshot]
}

// NewStore creates a store pre-loaded with an empty snapshot so Current
// never returns nil.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(models.EmptySnapshot())
	return s
}

// Publish atomically replaces the published snapshot. Only the syncer may
// call this; the snapshot must not be mutated afterwards.
func (s *Store) Publish(snap *models.Snapshot) {
	s.current.Store(snap)
}

// Current returns the latest published snapshot. The returned snapshot is
// read-only.
func (s *Store) Current() *models.Snapshot {
	return s.current.Load()
}
