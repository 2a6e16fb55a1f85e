package enumerate

import (
	"context"
	"runtime"
	"sync"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/domain"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// GridsFor creates the grids of the declared variables from a
// configuration, in the order of bearsolve.DeclaredVariables.
func GridsFor(conf bearsolve.Config) ([]domain.Grid, error) {
	bearing, err := domain.New(bearsolve.BearingVar, conf.BearingMin, conf.BearingMax, conf.BearingStep)
	if err != nil {
		return nil, err
	}
	rng, err := domain.New(bearsolve.RangeVar, conf.RangeMin, conf.RangeMax, conf.RangeStep)
	if err != nil {
		return nil, err
	}
	return []domain.Grid{bearing, rng}, nil
}

// Builder creates an enumerator over the given grids. Every call must create
// an enumerator with a solver of its own.
type Builder func(grids []domain.Grid) (*Enumerator, error)

// Summary is the merged outcome of a sharded enumeration.
type Summary struct {
	State  State // Exhausted if and only if every shard is exhausted
	Shards int
	Stats  Stats
	Err    error // the first failure of a shard, if any
}

// Shard splits the grid with the most values into n parts and returns one
// list of grids per part.
func Shard(grids []domain.Grid, n int) [][]domain.Grid {
	if len(grids) == 0 || n <= 1 {
		return [][]domain.Grid{grids}
	}
	widest := 0
	for i, g := range grids {
		if g.Len() > grids[widest].Len() {
			widest = i
		}
	}
	parts := grids[widest].Split(n)
	shards := make([][]domain.Grid, len(parts))
	for i, p := range parts {
		shard := make([]domain.Grid, len(grids))
		copy(shard, grids)
		shard[widest] = p
		shards[i] = shard
	}
	return shards
}

// RunSharded enumerates the models over grids in up to n independent shards,
// running concurrently. emit is called for every model; calls of emit are
// serialized. An error returned by emit stops all shards.
//
// The returned error is non-nil if building an enumerator or emitting a
// model failed. A failed shard is reported through Summary.Err.
func RunSharded(ctx context.Context, grids []domain.Grid, n int, build Builder,
	emit func(bearsolve.Model) error) (Summary, error) {
	//
	shards := Shard(grids, n)
	summary := Summary{State: Exhausted, Shards: len(shards)}
	var mu sync.Mutex // guards emit and summary
	group, gctx := errgroup.WithContext(ctx)
	limit := runtime.GOMAXPROCS(0)
	if limit > len(shards) {
		limit = len(shards)
	}
	group.SetLimit(limit)
	for i, shard := range shards {
		i, shard := i, shard
		group.Go(func() error {
			e, err := build(shard)
			if err != nil {
				return errors.Wrapf(err, "shard %d", i)
			}
			tracer().Debugf("shard %d: %v", i, shard)
			for {
				model, ok := e.Next(gctx)
				if !ok {
					break
				}
				mu.Lock()
				err := emit(model)
				mu.Unlock()
				if err != nil {
					return err
				}
			}
			mu.Lock()
			defer mu.Unlock()
			summary.Stats = summary.Stats.Add(e.Stats())
			if e.State() != Exhausted {
				summary.State = Failed
				if summary.Err == nil {
					summary.Err = e.Err()
				}
			}
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		summary.State = Failed
	}
	tracer().Infof("%d shards: %s after %d models", summary.Shards, summary.State, summary.Stats.Models)
	return summary, err
}
