package almanac

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/pborges/almanac/internal/ctxlog"
)

// DefaultBatchSize is the number of seeds per work item when Options leaves it unset.
const DefaultBatchSize = 1_000_000

// SeedRange covers the seeds [Start, Start+Length).
type SeedRange struct {
	Start  uint64
	Length uint64
}

// End is the first seed after the range.
func (r SeedRange) End() uint64 {
	return r.Start + r.Length
}

// Contains reports whether seed falls inside the range.
func (r SeedRange) Contains(seed uint64) bool {
	return seed >= r.Start && seed-r.Start < r.Length
}

// SeedRanges reads the seed line as (start, length) pairs.
func (a *Almanac) SeedRanges() ([]SeedRange, error) {
	if len(a.Seeds)%2 != 0 {
		return nil, fmt.Errorf("%w: seed ranges need an even number of values, got %d", ErrMalformedInput, len(a.Seeds))
	}
	ranges := make([]SeedRange, 0, len(a.Seeds)/2)
	for i := 0; i < len(a.Seeds); i += 2 {
		r := SeedRange{Start: a.Seeds[i], Length: a.Seeds[i+1]}
		if r.Length == 0 {
			continue
		}
		if r.Length > math.MaxUint64-r.Start {
			return nil, fmt.Errorf("%w: seed range %d+%d", ErrArithmeticOverflow, r.Start, r.Length)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// TotalSeeds counts the seeds covered by ranges.
func TotalSeeds(ranges []SeedRange) (tot uint64) {
	for _, r := range ranges {
		tot += r.Length
	}
	return tot
}

// Options tunes the worker pool. Zero values pick defaults.
type Options struct {
	Workers   int
	BatchSize uint64
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// LowestInRange resolves every seed in r and returns the smallest location.
// r must not be empty.
func (a *Almanac) LowestInRange(r SeedRange) uint64 {
	lowest := a.Resolve(r.Start)
	for seed := r.Start + 1; seed < r.End(); seed++ {
		lowest = min(lowest, a.Resolve(seed))
	}
	return lowest
}

// LowestInRanges interprets the seeds as ranges and finds the smallest
// location over every seed they cover. The ranges are cut into batches that
// a pool of workers resolves independently.
func (a *Almanac) LowestInRanges(ctx context.Context, opts Options) (uint64, error) {
	ranges, err := a.SeedRanges()
	if err != nil {
		return 0, err
	}
	if len(ranges) == 0 {
		return 0, ErrEmptySeedSet
	}
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx)
	logger.DebugContext(ctx, "Searching seed ranges.", "ranges", len(ranges), "seeds", TotalSeeds(ranges), "workers", opts.Workers, "batch_size", opts.BatchSize)

	start := time.Now()
	inputCh := make(chan SeedRange)
	outputCh := make(chan uint64)

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go func() {
			defer wg.Done()
			// inputCh closing means there is no more work.
			for r := range inputCh {
				if ctx.Err() != nil {
					continue
				}
				select {
				case outputCh <- a.LowestInRange(r):
				case <-ctx.Done():
				}
			}
		}()
	}

	go func() {
		defer func() {
			close(inputCh)
			wg.Wait()
			close(outputCh)
		}()
		for idx, r := range ranges {
			rangeStart := time.Now()
			for b := r.Start; b < r.End(); {
				n := min(opts.BatchSize, r.End()-b)
				select {
				case inputCh <- SeedRange{Start: b, Length: n}:
				case <-ctx.Done():
					return
				}
				b += n
			}
			logger.DebugContext(ctx, "Dispatched seed range.", "range", idx+1, "of", len(ranges), "start", r.Start, "end", r.End(), "elapsed", time.Since(rangeStart))
		}
	}()

	var lowest uint64
	found := false
	for res := range outputCh {
		if !found || res < lowest {
			lowest = res
			found = true
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	logger.DebugContext(ctx, "Seed range search finished.", "lowest", lowest, "elapsed", time.Since(start))
	return lowest, nil
}

// ResolveConcurrent is ResolveAll spread over a pool of workers. The output
// order matches Seeds, and seeds are traced at debug level the same way.
func (a *Almanac) ResolveConcurrent(ctx context.Context, workers int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := ctxlog.FromContext(ctx)
	trace := logger.Enabled(ctx, slog.LevelDebug)

	out := make([]uint64, len(a.Seeds))
	inputCh := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range inputCh {
				out[idx] = a.resolveLogged(ctx, logger, trace, a.Seeds[idx])
			}
		}()
	}

	var err error
feed:
	for idx := range a.Seeds {
		select {
		case inputCh <- idx:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(inputCh)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}
