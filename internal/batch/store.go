// Package batch implements the in-memory batch table. The store is an
// explicit owned object injected into the coordinator and HTTP layer (never
// a module-level singleton), so tests can construct isolated instances.
//
// Concurrency model: status polls read concurrently; each batch has exactly
// one writer, the background run that owns it, so there is no cross-batch
// write contention. A single RWMutex over the map is sufficient at this
// scale. Reads return deep-copied snapshots so pollers never observe a
// record mid-mutation.
//
// Batches are process-lifetime only. A restart loses every in-flight and
// historical record; durability is an explicit non-goal.
package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
)

// Store holds all batch records for the lifetime of the process.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch
}

// NewStore returns an empty batch table.
func NewStore() *Store {
	return &Store{batches: make(map[string]*domain.Batch)}
}

// Create allocates a new batch record in the in_progress state and returns
// a snapshot of it. The prompts slice is copied; the caller keeps ownership
// of its argument.
func (s *Store) Create(size int, prompts []string) domain.Batch {
	b := &domain.Batch{
		ID:         uuid.NewString(),
		Size:       size,
		Status:     domain.BatchInProgress,
		CreatedIDs: []int64{},
		CreatedAt:  time.Now().UTC(),
	}
	if len(prompts) > 0 {
		b.Prompts = append([]string(nil), prompts...)
	}

	s.mu.Lock()
	s.batches[b.ID] = b
	s.mu.Unlock()
	return b.Clone()
}

// Get returns a snapshot of the batch with the given id, or false when the
// id is unknown.
func (s *Store) Get(id string) (domain.Batch, bool) {
	s.mu.RLock()
	b, ok := s.batches[id]
	if !ok {
		s.mu.RUnlock()
		return domain.Batch{}, false
	}
	snap := b.Clone()
	s.mu.RUnlock()
	return snap, true
}

// Len returns the number of tracked batches.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

// MarkStarted stamps the batch's StartedAt.
func (s *Store) MarkStarted(id string, at time.Time) {
	s.update(id, func(b *domain.Batch) {
		t := at.UTC()
		b.StartedAt = &t
	})
}

// Append records a created joke ID on the batch, in completion order.
func (s *Store) Append(id string, jokeID int64) {
	s.update(id, func(b *domain.Batch) {
		b.CreatedIDs = append(b.CreatedIDs, jokeID)
	})
}

// SetDegraded flags the batch as having masked dedup guarantees (one or more
// IDs are synthetic because the content store was unavailable).
func (s *Store) SetDegraded(id string) {
	s.update(id, func(b *domain.Batch) {
		b.Degraded = true
	})
}

// SetError records a non-fatal error description without changing status.
func (s *Store) SetError(id, msg string) {
	s.update(id, func(b *domain.Batch) {
		b.Error = msg
	})
}

// Complete transitions the batch to its completed terminal state. Terminal
// states are never overwritten.
func (s *Store) Complete(id string, at time.Time) {
	s.update(id, func(b *domain.Batch) {
		if b.Status.Terminal() {
			return
		}
		t := at.UTC()
		b.Status = domain.BatchCompleted
		b.CompletedAt = &t
	})
}

// Fail transitions the batch to its failed terminal state with an error
// description. Terminal states are never overwritten.
func (s *Store) Fail(id string, at time.Time, msg string) {
	s.update(id, func(b *domain.Batch) {
		if b.Status.Terminal() {
			return
		}
		t := at.UTC()
		b.Status = domain.BatchFailed
		b.CompletedAt = &t
		b.Error = msg
	})
}

// update applies fn to the batch under the write lock. Unknown ids are
// ignored; only the owning run calls mutators, and it holds a valid id.
func (s *Store) update(id string, fn func(*domain.Batch)) {
	s.mu.Lock()
	if b, ok := s.batches[id]; ok {
		fn(b)
	}
	s.mu.Unlock()
}
