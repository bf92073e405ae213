// Package mapproc builds and persists the all-pairs landmark distance set
// for one warehouse map.
package mapproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-router/pkg/grid"
	"github.com/dd0wney/cluso-router/pkg/logging"
	"github.com/dd0wney/cluso-router/pkg/parallel"
	"github.com/dd0wney/cluso-router/pkg/search"
	"github.com/dd0wney/cluso-router/pkg/store"
)

// FailedPair is a per-pair computation fault. Failed pairs are dropped from
// the distance set but reported on the result so callers don't have to scrape
// logs to see them.
type FailedPair struct {
	FromID string
	ToID   string
	Reason string
}

// Result is the outcome of one map build: the computed records plus any
// per-pair failures. Partial failures never fail the build as a whole.
type Result struct {
	Records     []store.Record
	FailedPairs []FailedPair
}

// Builder drives the grid search over every enumerated landmark pair and
// persists the assembled distance set.
type Builder struct {
	store   store.DistanceStore
	workers int
	logger  logging.Logger
}

// NewBuilder returns a builder fanning out over the given number of workers.
// A count of zero or less sizes the pool to the available CPUs.
func NewBuilder(st store.DistanceStore, workers int, logger logging.Logger) *Builder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Builder{store: st, workers: workers, logger: logger}
}

// Build normalizes the grid in place, enumerates the landmark pairs that
// matter, computes each pair's walking distance concurrently and persists the
// full set under mapID, replacing any prior set. Unreachable pairs are
// recorded with distance -1, never dropped. The returned error is non-nil
// only when persistence fails.
func (b *Builder) Build(ctx context.Context, g grid.Grid, mapID string) (*Result, error) {
	g.Normalize()
	pairs := grid.EnumeratePairs(g).All()

	op := logging.StartTimer(b.logger, "distance set build",
		logging.MapID(mapID),
		logging.Pairs(len(pairs)),
		logging.Int("workers", b.workers),
	)

	var (
		mu     sync.Mutex
		result Result
	)
	result.Records = make([]store.Record, 0, len(pairs))

	pool, err := parallel.NewWorkerPool(b.workers, func(recovered any) {
		// Pair-specific recovery happens inside each task; this is the
		// pool-level backstop.
		b.logger.Error("distance worker panic", logging.Any("panic", recovered))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}

	for _, pair := range pairs {
		pair := pair
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("dropping failed pair",
						logging.MapID(mapID),
						logging.String("from_id", pair.From.ID),
						logging.String("to_id", pair.To.ID),
						logging.Any("panic", r),
					)
					mu.Lock()
					result.FailedPairs = append(result.FailedPairs, FailedPair{
						FromID: pair.From.ID,
						ToID:   pair.To.ID,
						Reason: fmt.Sprint(r),
					})
					mu.Unlock()
				}
			}()

			dist, ok := search.ShortestPathLength(g, pair.From.Pos, pair.To.Pos)
			if !ok {
				dist = search.NoPath
			}

			mu.Lock()
			result.Records = append(result.Records, store.Record{
				FromID:   pair.From.ID,
				ToID:     pair.To.ID,
				Distance: dist,
			})
			mu.Unlock()
		})
	}
	pool.Wait()

	if err := b.store.Save(ctx, mapID, result.Records); err != nil {
		op.EndError(err)
		return nil, fmt.Errorf("failed to persist distance set for map %s: %w", mapID, err)
	}
	op.End()

	b.logger.Info("distance set persisted",
		logging.MapID(mapID),
		logging.Count(len(result.Records)),
		logging.Int("failed_pairs", len(result.FailedPairs)),
	)
	return &result, nil
}
