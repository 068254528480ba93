package batch

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
)

func TestStore_CreateAssignsDefaults(t *testing.T) {
	s := NewStore()

	b := s.Create(3, []string{"p1", "p2"})
	if _, err := uuid.Parse(b.ID); err != nil {
		t.Fatalf("batch id must be a UUID: %q", b.ID)
	}
	if b.Status != domain.BatchInProgress {
		t.Fatalf("initial status = %q, want in_progress", b.Status)
	}
	if b.Size != 3 || len(b.CreatedIDs) != 0 {
		t.Fatalf("unexpected batch: %+v", b)
	}
	if b.CreatedIDs == nil {
		t.Fatalf("CreatedIDs must be an empty slice, not nil (serializes as [])")
	}
	if b.CreatedAt.IsZero() || time.Since(b.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", b.CreatedAt)
	}
	if b.StartedAt != nil || b.CompletedAt != nil || b.Error != "" || b.Degraded {
		t.Fatalf("fresh batch carries stale fields: %+v", b)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestStore_CreateCopiesPrompts(t *testing.T) {
	s := NewStore()
	prompts := []string{"original"}
	b := s.Create(1, prompts)

	prompts[0] = "mutated"
	got, ok := s.Get(b.ID)
	if !ok {
		t.Fatalf("batch vanished")
	}
	if got.Prompts[0] != "original" {
		t.Fatalf("store shares caller's prompts slice")
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("nope"); ok {
		t.Fatalf("unknown id must report ok=false")
	}
}

func TestStore_LifecycleTransitions(t *testing.T) {
	s := NewStore()
	b := s.Create(2, nil)

	started := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	s.MarkStarted(b.ID, started)
	s.Append(b.ID, 11)
	s.Append(b.ID, 12)
	s.Complete(b.ID, started.Add(time.Second))

	got, _ := s.Get(b.ID)
	if got.Status != domain.BatchCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("StartedAt = %v", got.StartedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(started.Add(time.Second)) {
		t.Fatalf("CompletedAt = %v", got.CompletedAt)
	}
	if len(got.CreatedIDs) != 2 || got.CreatedIDs[0] != 11 || got.CreatedIDs[1] != 12 {
		t.Fatalf("CreatedIDs = %v", got.CreatedIDs)
	}
}

func TestStore_TerminalStatesAreSticky(t *testing.T) {
	s := NewStore()
	b := s.Create(1, nil)

	now := time.Now().UTC()
	s.Fail(b.ID, now, "boom")
	s.Complete(b.ID, now.Add(time.Second)) // must be a no-op

	got, _ := s.Get(b.ID)
	if got.Status != domain.BatchFailed || got.Error != "boom" {
		t.Fatalf("terminal state overwritten: %+v", got)
	}
	if !got.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt moved after terminal transition: %v", got.CompletedAt)
	}
}

func TestStore_DegradedAndError(t *testing.T) {
	s := NewStore()
	b := s.Create(1, nil)

	s.SetDegraded(b.ID)
	s.SetError(b.ID, "1 of 3 inserts degraded")

	got, _ := s.Get(b.ID)
	if !got.Degraded {
		t.Fatalf("degraded flag not set")
	}
	if got.Error != "1 of 3 inserts degraded" {
		t.Fatalf("error = %q", got.Error)
	}
	if got.Status != domain.BatchInProgress {
		t.Fatalf("SetError must not change status: %q", got.Status)
	}
}

func TestStore_MutatorsIgnoreUnknownIDs(t *testing.T) {
	s := NewStore()
	// None of these may panic or create entries.
	s.MarkStarted("nope", time.Now())
	s.Append("nope", 1)
	s.SetDegraded("nope")
	s.Complete("nope", time.Now())
	s.Fail("nope", time.Now(), "x")
	if s.Len() != 0 {
		t.Fatalf("mutators on unknown ids created entries")
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore()
	b := s.Create(2, nil)
	s.Append(b.ID, 1)

	snap, _ := s.Get(b.ID)
	s.Append(b.ID, 2)

	if len(snap.CreatedIDs) != 1 {
		t.Fatalf("snapshot mutated by later append: %v", snap.CreatedIDs)
	}
}

func TestStore_ConcurrentPollsDuringWrites(t *testing.T) {
	s := NewStore()
	b := s.Create(100, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Append(b.ID, int64(i))
		}
		s.Complete(b.ID, time.Now())
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			got, ok := s.Get(b.ID)
			if !ok {
				t.Errorf("batch vanished mid-run")
				return
			}
			if len(got.CreatedIDs) > got.Size {
				t.Errorf("len(CreatedIDs)=%d exceeds size=%d", len(got.CreatedIDs), got.Size)
				return
			}
		}
	}()
	wg.Wait()

	got, _ := s.Get(b.ID)
	if got.Status != domain.BatchCompleted || len(got.CreatedIDs) != 100 {
		t.Fatalf("final state: %q with %d ids", got.Status, len(got.CreatedIDs))
	}
}
