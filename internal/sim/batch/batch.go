// Package batch deals many independent seeds in parallel and summarizes how
// hard the generator had to work for them.
package batch

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"tiledeal.ai/internal/protocol"
	"tiledeal.ai/internal/sim/partition"
)

// Summary aggregates the outcomes of a batch. Attempts is a histogram of
// attempts needed by successful deals.
type Summary struct {
	Players   int
	Deals     int
	Succeeded int
	Attempts  map[int]int
	Failures  map[string]int // by wire code
}

func (s Summary) MaxAttempts() int {
	m := 0
	for n := range s.Attempts {
		m = max(m, n)
	}
	return m
}

func (s Summary) MeanAttempts() float64 {
	if s.Succeeded == 0 {
		return 0
	}
	total := 0
	for n, c := range s.Attempts {
		total += n * c
	}
	return float64(total) / float64(s.Succeeded)
}

// Percentile returns the smallest attempt count covering at least p percent
// of successful deals.
func (s Summary) Percentile(p float64) int {
	if s.Succeeded == 0 {
		return 0
	}
	keys := make([]int, 0, len(s.Attempts))
	for n := range s.Attempts {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	need := p / 100 * float64(s.Succeeded)
	seen := 0
	for _, n := range keys {
		seen += s.Attempts[n]
		if float64(seen) >= need {
			return n
		}
	}
	return keys[len(keys)-1]
}

// Run deals players seats once for every seed using at most workers
// goroutines. Generation failures are counted, not returned; only
// cancellation stops the batch early. The generator's observer, if any, must
// be safe for concurrent use.
func Run(ctx context.Context, g *partition.Generator, players int, seeds []int64, workers int) (Summary, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sum := Summary{
		Players:  players,
		Deals:    len(seeds),
		Attempts: map[int]int{},
		Failures: map[string]int{},
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, seed := range seeds {
		eg.Go(func() error {
			r, err := g.Deal(ctx, players, seed)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failures[protocol.CodeFor(err)]++
				return nil
			}
			sum.Succeeded++
			sum.Attempts[r.Attempts]++
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return sum, err
	}
	return sum, nil
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}
