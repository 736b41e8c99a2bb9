// Package almanac parses seed almanacs and resolves seeds through their
// chain of category maps.
package almanac

import (
	"context"
	"log/slog"

	"github.com/pborges/almanac/internal/ctxlog"
)

// Almanac is the parsed model: the seeds to resolve and the maps to push them
// through, both in the order they appeared in the text. It is never modified
// after Parse returns, so it is safe to share between goroutines.
type Almanac struct {
	Seeds []uint64
	Maps  []Map
}

// Resolve folds seed through every map in order.
func (a *Almanac) Resolve(seed uint64) uint64 {
	return a.resolve(seed, nil)
}

func (a *Almanac) resolve(seed uint64, visit func(m Map, v uint64)) (location uint64) {
	location = seed
	for _, m := range a.Maps {
		location = m.Lookup(location)
		if visit != nil {
			visit(m, location)
		}
	}
	return
}

// ResolveAll resolves every seed, returning outputs in seed order. When the
// context logger has debug enabled, each seed's path through the maps is logged.
func (a *Almanac) ResolveAll(ctx context.Context) []uint64 {
	logger := ctxlog.FromContext(ctx)
	trace := logger.Enabled(ctx, slog.LevelDebug)

	out := make([]uint64, len(a.Seeds))
	for i, seed := range a.Seeds {
		out[i] = a.resolveLogged(ctx, logger, trace, seed)
	}
	return out
}

func (a *Almanac) resolveLogged(ctx context.Context, logger *slog.Logger, trace bool, seed uint64) uint64 {
	if !trace {
		return a.Resolve(seed)
	}
	attrs := make([]any, 0, 2*len(a.Maps)+2)
	attrs = append(attrs, "seed", seed)
	location := a.resolve(seed, func(m Map, v uint64) {
		attrs = append(attrs, m.To, v)
	})
	logger.DebugContext(ctx, "Resolved seed.", attrs...)
	return location
}

// Lowest returns the smallest resolved value over all seeds.
func (a *Almanac) Lowest(ctx context.Context) (uint64, error) {
	return Min(a.ResolveAll(ctx))
}

// Validate checks every map. Parse calls it before returning.
func (a *Almanac) Validate() error {
	for _, m := range a.Maps {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Min returns the smallest value, or ErrEmptySeedSet for an empty slice.
func Min(values []uint64) (uint64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeedSet
	}
	lowest := values[0]
	for _, v := range values[1:] {
		lowest = min(lowest, v)
	}
	return lowest, nil
}
