package partition

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"

	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/tuning"
)

// AttemptEvent reports the outcome of one attempt. Player is the seat whose
// search failed, or -1 when the failure was not in a search.
type AttemptEvent struct {
	Attempt int
	Player  int
	Err     error
}

func (e AttemptEvent) OK() bool { return e.Err == nil }

type Option func(*Generator)

// WithMaxAttempts overrides the table's attempt bound.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithObserver registers a callback invoked after every attempt.
func WithObserver(fn func(AttemptEvent)) Option {
	return func(g *Generator) { g.observer = fn }
}

// Generator deals partitions for a catalog and policy table.
type Generator struct {
	cat         *catalogs.Catalog
	table       tuning.Table
	maxAttempts int
	log         logrus.FieldLogger
	observer    func(AttemptEvent)
}

func NewGenerator(cat *catalogs.Catalog, table tuning.Table, opts ...Option) *Generator {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	g := &Generator{
		cat:         cat,
		table:       table,
		maxAttempts: table.MaxAttempts,
		log:         quiet,
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = tuning.DefaultMaxAttempts
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) MaxAttempts() int { return g.maxAttempts }

// Deal runs Generate with a generator seeded from seed and records the seed.
func (g *Generator) Deal(ctx context.Context, players int, seed int64) (*Result, error) {
	return g.generate(ctx, players, seed, rand.New(rand.NewSource(seed)))
}

// Generate runs randomized attempts until one yields a full partition or
// the attempt bound is reached. rng is the only source of randomness; the
// result's Seed is left zero.
func (g *Generator) Generate(ctx context.Context, players int, rng *rand.Rand) (*Result, error) {
	return g.generate(ctx, players, 0, rng)
}

func (g *Generator) generate(ctx context.Context, players int, seed int64, rng *rand.Rand) (*Result, error) {
	policy, err := g.table.Lookup(players)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: players %d: %v", ErrConfiguration, players, err)
	}
	log := g.log.WithField("players", players)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("deal canceled after %d attempts: %w", attempt-1, err)
		}

		s, failed, err := g.attempt(policy, rng)
		g.notify(AttemptEvent{Attempt: attempt, Player: failed, Err: err})
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
			log.WithFields(logrus.Fields{
				"attempt": attempt,
				"cause":   err.Error(),
			}).Debug("attempt discarded")
			lastErr = err
			continue
		}

		if err := s.sweep(); err != nil {
			return nil, err
		}
		r := s.result()
		r.Seed = seed
		r.Attempts = attempt
		if err := r.Verify(g.cat, policy); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"attempts": attempt,
			"digest":   r.Digest(),
		}).Debug("deal complete")
		return r, nil
	}
	return nil, fmt.Errorf("%w: no partition for %d players in %d attempts (last: %v)",
		ErrRetriesExhausted, players, g.maxAttempts, lastErr)
}

// attempt runs one full allocation on a fresh state.
func (g *Generator) attempt(p tuning.Policy, rng *rand.Rand) (*State, int, error) {
	s := newState(g.cat, p)
	if err := allocateCategories(s, p, rng); err != nil {
		return nil, -1, err
	}
	for player := 0; player < p.Players; player++ {
		if err := fillPlayer(s, player, rng); err != nil {
			return nil, player, err
		}
	}
	return s, -1, nil
}

func (g *Generator) notify(ev AttemptEvent) {
	if g.observer != nil {
		g.observer(ev)
	}
}
