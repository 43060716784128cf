package persistence

import (
	"sync"
	"time"
)

// Partitioned is a generic in-memory store that keeps one record list per
// tenant. Record ids are monotonically increasing within a partition and carry
// no meaning across tenants. Unknown tenants are auto-provisioned on first
// list or create; only delete distinguishes "never existed" from "not found".
type Partitioned[R any] struct {
	mu    sync.RWMutex
	parts map[string]*partition[R]
}

type partition[R any] struct {
	nextID  int64
	records []R
}

// NewPartitioned constructs an empty Partitioned store.
func NewPartitioned[R any]() *Partitioned[R] {
	return &Partitioned[R]{parts: make(map[string]*partition[R])}
}

// List returns the partition's records in insertion order. The returned slice
// is a copy; callers may mutate it freely.
func (s *Partitioned[R]) List(tenantID string) []R {
	s.mu.RLock()
	defer s.mu.RUnlock()

	part, ok := s.parts[tenantID]
	if !ok {
		return []R{}
	}
	out := make([]R, len(part.records))
	copy(out, part.records)
	return out
}

// Create appends a record built by the callback, which receives the assigned
// id and creation timestamp. The build call happens inside the critical
// section, so it must not block.
func (s *Partitioned[R]) Create(tenantID string, build func(id int64, createdAt time.Time) R) R {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.parts[tenantID]
	if !ok {
		part = &partition[R]{nextID: 1}
		s.parts[tenantID] = part
	}

	record := build(part.nextID, time.Now().UTC())
	part.nextID++
	part.records = append(part.records, record)
	return record
}

// Delete removes the first record matching the predicate from the tenant's
// partition. Returns false when the tenant or the record does not exist, so a
// caller probing another tenant's id learns nothing.
func (s *Partitioned[R]) Delete(tenantID string, match func(R) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.parts[tenantID]
	if !ok {
		return false
	}
	for i, r := range part.records {
		if match(r) {
			part.records = append(part.records[:i], part.records[i+1:]...)
			return true
		}
	}
	return false
}

// Purge drops the tenant's entire partition. Used by business deletion.
func (s *Partitioned[R]) Purge(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.parts, tenantID)
}
