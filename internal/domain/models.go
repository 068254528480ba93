// Package domain defines the core models of the joke generation service:
// the persisted Joke record (mapped with GORM) and the in-memory Batch
// lifecycle record tracked by the batch store.
package domain

import (
	"time"
)

// Joke represents a persisted generated content item. Rows are created once
// at first insertion of a given (setup, punchline) pair and never updated or
// deleted by this service.
//
// Fields:
//   - ID: surrogate integer identifier assigned by the store.
//   - Setup / Punchline: joke text; the dedup identity of the record.
//   - Category / Author: optional metadata.
//   - CreatedAt: insertion timestamp.
//   - Hash: sha256 of (setup, punchline), derived at insert time. The UNIQUE
//     index on this column is the sole dedup mechanism; concurrent inserts of
//     identical content collapse to the first-inserted row.
type Joke struct {
	ID        int64     `json:"id"                 gorm:"primaryKey;autoIncrement"`
	Setup     string    `json:"setup"              gorm:"type:text;not null"`
	Punchline string    `json:"punchline"          gorm:"type:text;not null"`
	Category  string    `json:"category,omitempty" gorm:"type:varchar(64)"`
	Author    string    `json:"author,omitempty"   gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"created_at"`
	Hash      string    `json:"-"                  gorm:"type:char(64);not null;uniqueIndex:ux_jokes_hash"`
}

// TableName returns the database table name for Joke.
func (Joke) TableName() string { return "jokes" }

// BatchStatus is the lifecycle state of a batch. The only transitions are
// in_progress → completed and in_progress → failed; both targets are terminal.
type BatchStatus string

const (
	// BatchInProgress is the initial state assigned at submission.
	BatchInProgress BatchStatus = "in_progress"
	// BatchCompleted means every requested record was produced and recorded.
	BatchCompleted BatchStatus = "completed"
	// BatchFailed means the run aborted; Error carries the description.
	BatchFailed BatchStatus = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s BatchStatus) Terminal() bool {
	return s == BatchCompleted || s == BatchFailed
}

// Batch represents one bulk-generation request. Batches live only in process
// memory; a restart loses all in-flight and historical records.
//
// Invariant: len(CreatedIDs) <= Size always, and len(CreatedIDs) == Size
// exactly when Status is BatchCompleted. CreatedIDs may contain duplicates
// (dedup resolves identical content to the pre-existing record's ID) and
// negative synthetic IDs (assigned when the content store was unavailable
// for an item; Degraded is set in that case).
type Batch struct {
	ID          string
	Size        int
	Prompts     []string // accepted at the boundary, reserved, not consumed
	Status      BatchStatus
	CreatedIDs  []int64
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Error       string
	Degraded    bool
}

// Clone returns a deep copy safe to hand to readers while the owning run
// keeps mutating the original.
func (b *Batch) Clone() Batch {
	out := *b
	if b.Prompts != nil {
		out.Prompts = make([]string, len(b.Prompts))
		copy(out.Prompts, b.Prompts)
	}
	if b.CreatedIDs != nil {
		out.CreatedIDs = make([]int64, len(b.CreatedIDs))
		copy(out.CreatedIDs, b.CreatedIDs)
	}
	if b.StartedAt != nil {
		t := *b.StartedAt
		out.StartedAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
