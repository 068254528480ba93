// Package repo implements the data persistence layer for the joke content
// store, backed by GORM. This file provides repository functions for the
// Joke model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a joke is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - AddJoke never surfaces a UNIQUE violation: identical content resolves
//     to the pre-existing row instead (existing=true).
//   - On other DB errors (connectivity, corruption, missing schema), the raw
//     gorm error is propagated; the caller decides the degradation policy.
package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ContentHash returns the dedup digest for a (setup, punchline) pair:
// sha256 over the two fields joined by '|', hex-encoded. The separator keeps
// ("ab","c") and ("a","bc") distinct.
func ContentHash(setup, punchline string) string {
	sum := sha256.Sum256([]byte(setup + "|" + punchline))
	return hex.EncodeToString(sum[:])
}

// AddJoke inserts a joke row, deduplicating on content hash. The operation is
// atomic from the caller's perspective: the UNIQUE index on the hash column
// guarantees that concurrent adds of identical content never create two rows,
// without any application-level locking.
//
// On a fresh insert it returns the new row with existing=false. When a row
// with the same hash already exists, it fetches and returns that row with
// existing=true. Any other storage failure is returned as-is.
func AddJoke(ctx context.Context, db *gorm.DB, setup, punchline, category, author string) (*domain.Joke, bool, error) {
	j := &domain.Joke{
		Setup:     setup,
		Punchline: punchline,
		Category:  category,
		Author:    author,
		CreatedAt: time.Now().UTC(),
		Hash:      ContentHash(setup, punchline),
	}
	err := db.WithContext(ctx).Create(j).Error
	if err == nil {
		return j, false, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, err
	}

	// Lost the race (or re-submitted content): resolve to the first-inserted row.
	var existing domain.Joke
	if ferr := db.WithContext(ctx).Where("hash = ?", j.Hash).First(&existing).Error; ferr != nil {
		return nil, false, ferr
	}
	return &existing, true, nil
}

// GetJoke fetches a joke by ID, or ErrNotFound if missing.
func GetJoke(ctx context.Context, db *gorm.DB, id int64) (*domain.Joke, error) {
	var j domain.Joke
	if err := db.WithContext(ctx).Where("id = ?", id).First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// ListJokes returns up to limit most-recently-created jokes, newest first.
// ID order stands in for creation order; IDs are monotonic in SQLite and
// avoid ties between rows inserted in the same clock tick.
func ListJokes(ctx context.Context, db *gorm.DB, limit int) ([]domain.Joke, error) {
	var out []domain.Joke
	q := db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountJokes uses a raw COUNT so a missing table surfaces as an error.
func CountJokes(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM jokes").Scan(&total).Error
	return total, err
}

// JokesStats returns aggregate metadata for the jokes table: the total row
// count and the maximum ID. Used for conditional responses (ETag generation)
// in the HTTP layer. When the table is empty, maxID is 0.
func JokesStats(ctx context.Context, db *gorm.DB) (count int64, maxID int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Joke{})

	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var row struct {
		ID int64
	}
	if err = q.Select("id").Order("id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.ID, nil
}

// isUniqueViolation detects a UNIQUE constraint failure across the error
// shapes gorm and glebarez/sqlite produce (the driver often returns
// plain-text errors for UNIQUE violations).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
