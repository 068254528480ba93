// Package services – BatchService
//
// This file implements the batch coordinator. It owns the batch lifecycle:
// validation at submission, the in-memory status record, the asynchronous
// run (generate → persist → terminal transition), and the poll contract
// exposed to the HTTP layer.
//
// Submission is fire-and-forget with respect to the response path: Submit
// returns the handle synchronously and the run proceeds on its own
// goroutine. Callers observe progress and failure exclusively by polling
// Status. There is no cancellation; a submitted batch runs to a terminal
// state or dies with the process.
package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-jokegen-backend/internal/batch"
	"github.com/tbourn/go-jokegen-backend/internal/domain"
	"github.com/tbourn/go-jokegen-backend/internal/generator"
	"github.com/tbourn/go-jokegen-backend/internal/repo"
)

const (
	// DefaultMaxBatchSize caps the requested size of a single batch.
	DefaultMaxBatchSize = 1000
	// defaultSeedBase prefixes position-derived seeds ("seed-0", "seed-1", …).
	defaultSeedBase = "seed"
)

// BatchService coordinates batch submission, execution, and status polling.
type BatchService struct {
	// DB is the GORM handle for the joke content store.
	DB *gorm.DB
	// Batches is the injected in-memory batch table.
	Batches *batch.Store
	// Executor fans generation out across chunk workers.
	Executor *PoolExecutor

	// MaxBatchSize caps submissions; <= 0 means DefaultMaxBatchSize.
	MaxBatchSize int
	// SeedBase overrides the seed prefix; empty means defaultSeedBase.
	SeedBase string

	// synthetic numbers the ephemeral fallback identifiers handed out when
	// the content store is unavailable for an item. IDs are negative so they
	// can never collide with real store rows.
	synthetic atomic.Int64

	// persist is a test seam; production code always goes through repo.AddJoke.
	persist func(ctx context.Context, setup, punchline, category, author string) (*domain.Joke, bool, error)
}

// NewBatchService constructs a BatchService with default limits.
func NewBatchService(db *gorm.DB, store *batch.Store, exec *PoolExecutor) *BatchService {
	return &BatchService{
		DB:           db,
		Batches:      store,
		Executor:     exec,
		MaxBatchSize: DefaultMaxBatchSize,
	}
}

// Submit validates size, allocates an in_progress batch record, starts the
// asynchronous run, and returns a snapshot of the fresh record. The returned
// handle is valid for Status polling immediately; completion is observed by
// polling only.
//
// Validation failures return ErrInvalidBatchSize and create no record.
// The prompts parameter is recorded on the batch but not consumed by
// generation (reserved field).
func (s *BatchService) Submit(ctx context.Context, size int, prompts []string) (domain.Batch, error) {
	tr := otel.Tracer("services/BatchService")
	_, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.Int("batch.size", size)),
	)
	defer span.End()

	if size < 1 || size > s.maxSize() {
		return domain.Batch{}, ErrInvalidBatchSize
	}

	b := s.Batches.Create(size, prompts)
	batchesSubmitted.Inc()
	log.Info().Str("batch_id", b.ID).Int("size", size).Msg("batch accepted")

	go s.run(b.ID, size)
	return b, nil
}

// Status returns a snapshot of the batch's current state, or ErrBatchNotFound
// when the id is unknown.
func (s *BatchService) Status(ctx context.Context, id string) (domain.Batch, error) {
	tr := otel.Tracer("services/BatchService")
	_, span := tr.Start(ctx, "Status",
		trace.WithAttributes(attribute.String("batch.id", id)),
	)
	defer span.End()

	b, ok := s.Batches.Get(id)
	if !ok {
		return domain.Batch{}, ErrBatchNotFound
	}
	return b, nil
}

// run executes one batch to its terminal state. It owns all writes to the
// batch record. The context is fresh: the submitting request has already
// completed by the time this work runs.
func (s *BatchService) run(batchID string, size int) {
	tr := otel.Tracer("services/BatchService")
	ctx, span := tr.Start(context.Background(), "run",
		trace.WithAttributes(
			attribute.String("batch.id", batchID),
			attribute.Int("batch.size", size),
		),
	)
	defer span.End()

	start := time.Now()
	lg := log.With().Str("batch_id", batchID).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			lg.Error().Interface("panic", rec).Msg("batch run aborted")
			s.Batches.Fail(batchID, time.Now(), fmt.Sprintf("batch aborted: %v", rec))
			batchesFailed.Inc()
			batchDuration.Observe(time.Since(start).Seconds())
		}
	}()

	s.Batches.MarkStarted(batchID, start)

	seeds := make([]string, size)
	for i := range seeds {
		seeds[i] = generator.Seed(s.seedBase(), i)
	}

	results := s.Executor.RunBatch(ctx, seeds)

	// Persist sequentially so CreatedIDs append order follows the executor's
	// result order (stable within a chunk, unspecified across chunks).
	degraded := 0
	for _, r := range results {
		j := r.Joke
		joke, existing, err := s.addJoke(ctx, j.Setup, j.Punchline, j.Category, j.Author)
		if err != nil {
			// Store unavailable for this item: degrade to an ephemeral
			// identifier instead of losing the batch's progress. Dedup is
			// masked for this item; the degraded flag tells pollers so.
			id := -s.synthetic.Add(1)
			lg.Warn().Err(err).Int64("fallback_id", id).Str("seed", r.Seed).
				Msg("store insert failed, assigning ephemeral id")
			s.Batches.SetDegraded(batchID)
			s.Batches.Append(batchID, id)
			degradedInserts.Inc()
			degraded++
			continue
		}
		if existing {
			dedupHits.Inc()
		}
		s.Batches.Append(batchID, joke.ID)
	}

	if degraded > 0 {
		s.Batches.SetError(batchID, fmt.Sprintf("%d of %d inserts degraded to ephemeral ids", degraded, size))
	}
	s.Batches.Complete(batchID, time.Now())
	batchesCompleted.Inc()
	batchDuration.Observe(time.Since(start).Seconds())
	lg.Info().Int("size", size).Int("degraded", degraded).
		Dur("elapsed", time.Since(start)).Msg("batch completed")
}

func (s *BatchService) addJoke(ctx context.Context, setup, punchline, category, author string) (*domain.Joke, bool, error) {
	if s.persist != nil {
		return s.persist(ctx, setup, punchline, category, author)
	}
	return repo.AddJoke(ctx, s.DB, setup, punchline, category, author)
}

func (s *BatchService) maxSize() int {
	if s.MaxBatchSize > 0 {
		return s.MaxBatchSize
	}
	return DefaultMaxBatchSize
}

func (s *BatchService) seedBase() string {
	if s.SeedBase != "" {
		return s.SeedBase
	}
	return defaultSeedBase
}
