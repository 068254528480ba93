package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
)

// test DB helper
func newJokeRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("joke_repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestContentHash_SeparatorMatters(t *testing.T) {
	if ContentHash("ab", "c") == ContentHash("a", "bc") {
		t.Fatalf("hash must distinguish field boundaries")
	}
	if ContentHash("X", "Y") != ContentHash("X", "Y") {
		t.Fatalf("hash must be deterministic")
	}
	if len(ContentHash("", "")) != 64 {
		t.Fatalf("hash must be hex-encoded sha256 (64 chars)")
	}
}

func TestAddJoke_InsertAndRoundTrip(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	ctx := context.Background()

	j, existing, err := AddJoke(ctx, db, "Why?", "Because.", "tech", "tester")
	if err != nil {
		t.Fatalf("AddJoke error: %v", err)
	}
	if existing {
		t.Fatalf("first insert must not report existing")
	}
	if j.ID == 0 || j.Hash == "" {
		t.Fatalf("id/hash not assigned: %+v", j)
	}
	if j.CreatedAt.IsZero() || time.Since(j.CreatedAt) > time.Minute {
		t.Fatalf("CreatedAt not set reasonably: %v", j.CreatedAt)
	}

	got, err := GetJoke(ctx, db, j.ID)
	if err != nil {
		t.Fatalf("GetJoke: %v", err)
	}
	if got.Setup != "Why?" || got.Punchline != "Because." || got.Category != "tech" || got.Author != "tester" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestAddJoke_DedupReturnsExistingRow(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	ctx := context.Background()

	first, existing, err := AddJoke(ctx, db, "X", "Y", "a", "b")
	if err != nil || existing {
		t.Fatalf("first AddJoke: existing=%v err=%v", existing, err)
	}

	// Same content, different metadata: must resolve to the first row.
	second, existing, err := AddJoke(ctx, db, "X", "Y", "other", "author2")
	if err != nil {
		t.Fatalf("second AddJoke: %v", err)
	}
	if !existing {
		t.Fatalf("duplicate content must report existing=true")
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate must resolve to first id %d, got %d", first.ID, second.ID)
	}
	if second.Category != "a" || second.Author != "b" {
		t.Fatalf("dedup must return the stored row, not the attempted one: %+v", second)
	}

	total, err := CountJokes(ctx, db)
	if err != nil {
		t.Fatalf("CountJokes: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected exactly one row, got %d", total)
	}
}

func TestAddJoke_ConcurrentSameContent_SingleRow(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	ids := make([]int64, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j, _, err := AddJoke(ctx, db, "race setup", "race punchline", "", "")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = j.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent AddJoke %d: %v", i, err)
		}
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent adds diverged: %v", ids)
		}
	}
	total, err := CountJokes(ctx, db)
	if err != nil {
		t.Fatalf("CountJokes: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected a single deduped row, got %d", total)
	}
}

func TestAddJoke_ErrorWithoutSchema(t *testing.T) {
	db := newJokeRepoDB(t /* no migration */)
	if _, _, err := AddJoke(context.Background(), db, "s", "p", "", ""); err == nil {
		t.Fatalf("expected error due to missing jokes table")
	}
}

func TestListJokes_NewestFirstAndLimit(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, _, err := AddJoke(ctx, db, fmt.Sprintf("setup %d", i), fmt.Sprintf("punch %d", i), "", ""); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	top3, err := ListJokes(ctx, db, 3)
	if err != nil {
		t.Fatalf("ListJokes: %v", err)
	}
	if len(top3) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top3))
	}
	if top3[0].Setup != "setup 4" || top3[2].Setup != "setup 2" {
		t.Fatalf("unexpected order: %+v", top3)
	}
	for i := 1; i < len(top3); i++ {
		if top3[i].ID >= top3[i-1].ID {
			t.Fatalf("not newest-first: %+v", top3)
		}
	}

	// limit larger than the table → everything, no padding
	all, err := ListJokes(ctx, db, 100)
	if err != nil {
		t.Fatalf("ListJokes(100): %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(all))
	}
}

func TestGetJoke_NotFound(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	if _, err := GetJoke(context.Background(), db, 12345); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestJokesStats(t *testing.T) {
	db := newJokeRepoDB(t, &domain.Joke{})
	ctx := context.Background()

	count, maxID, err := JokesStats(ctx, db)
	if err != nil {
		t.Fatalf("JokesStats(empty): %v", err)
	}
	if count != 0 || maxID != 0 {
		t.Fatalf("empty table stats: count=%d maxID=%d", count, maxID)
	}

	j1, _, _ := AddJoke(ctx, db, "a", "b", "", "")
	j2, _, _ := AddJoke(ctx, db, "c", "d", "", "")

	count, maxID, err = JokesStats(ctx, db)
	if err != nil {
		t.Fatalf("JokesStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if maxID != j2.ID || maxID <= j1.ID {
		t.Fatalf("maxID = %d, want %d", maxID, j2.ID)
	}
}
