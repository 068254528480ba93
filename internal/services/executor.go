// Package services – PoolExecutor
//
// This file implements the worker-pool executor that fans a seed list out
// across goroutines and joins the results. Chunking is contiguous with
// near-equal sizes; each chunk runs the generator over its seeds in order
// and contributes its results as one unit.
//
// Ordering contract: results preserve seed order within a chunk, but chunks
// land in completion order, so the overall sequence is NOT guaranteed to
// match the input. Callers must not rely on global ordering.
//
// Failure contract: a chunk worker that panics rejects the whole parallel
// attempt; the executor then regenerates the entire seed list serially in
// process. The fallback is all-or-nothing rather than per-chunk, trading
// wasted work for uniform ordering semantics and a single code path.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/go-jokegen-backend/internal/generator"
)

// DefaultMaxWorkers bounds chunk parallelism when no explicit value is set.
const DefaultMaxWorkers = 4

// SeedResult pairs a seed with the joke it generated.
type SeedResult struct {
	Seed string
	Joke generator.Joke
}

// PoolExecutor splits seed lists into chunks and generates them in parallel.
// The zero value is usable; MaxWorkers <= 0 falls back to DefaultMaxWorkers.
type PoolExecutor struct {
	MaxWorkers int

	// generate is a test seam; production code always uses generator.Generate.
	generate func(string) generator.Joke
}

// NewPoolExecutor constructs a PoolExecutor with the given parallelism bound.
func NewPoolExecutor(maxWorkers int) *PoolExecutor {
	return &PoolExecutor{MaxWorkers: maxWorkers}
}

// RunBatch generates one joke per seed, using up to MaxWorkers concurrent
// chunk workers, and returns all results after the join. It never fails:
// worker-level faults degrade to serial in-process generation.
func (e *PoolExecutor) RunBatch(ctx context.Context, seeds []string) []SeedResult {
	tr := otel.Tracer("services/PoolExecutor")
	ctx, span := tr.Start(ctx, "RunBatch",
		trace.WithAttributes(attribute.Int("seeds", len(seeds))),
	)
	defer span.End()

	if len(seeds) == 0 {
		return []SeedResult{}
	}

	chunks := chunkSeeds(seeds, e.workers(len(seeds)))
	if len(chunks) == 1 {
		return e.runSerial(seeds)
	}

	results := make(chan []SeedResult, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("chunk worker panic: %v", rec)
				}
			}()
			out := make([]SeedResult, 0, len(chunk))
			for _, seed := range chunk {
				out = append(out, SeedResult{Seed: seed, Joke: e.gen(seed)})
			}
			select {
			case results <- out:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int("seeds", len(seeds)).
			Msg("chunk worker failed, regenerating batch serially")
		span.AddEvent("serial fallback")
		return e.runSerial(seeds)
	}
	close(results)

	// Join: chunks in completion order, seed order preserved within each.
	out := make([]SeedResult, 0, len(seeds))
	for chunk := range results {
		out = append(out, chunk...)
	}
	return out
}

// runSerial generates all seeds in order on the calling goroutine.
func (e *PoolExecutor) runSerial(seeds []string) []SeedResult {
	out := make([]SeedResult, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, SeedResult{Seed: seed, Joke: e.gen(seed)})
	}
	return out
}

func (e *PoolExecutor) gen(seed string) generator.Joke {
	if e.generate != nil {
		return e.generate(seed)
	}
	return generator.Generate(seed)
}

func (e *PoolExecutor) workers(total int) int {
	w := e.MaxWorkers
	if w <= 0 {
		w = DefaultMaxWorkers
	}
	if w > total {
		w = total
	}
	return w
}

// chunkSeeds partitions seeds into at most workers contiguous chunks of
// ceil(total/workers) seeds each. Trailing empty chunks are dropped.
func chunkSeeds(seeds []string, workers int) [][]string {
	total := len(seeds)
	per := (total + workers - 1) / workers

	chunks := make([][]string, 0, workers)
	for start := 0; start < total; start += per {
		end := start + per
		if end > total {
			end = total
		}
		chunks = append(chunks, seeds[start:end])
	}
	return chunks
}
