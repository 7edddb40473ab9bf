package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	tracelog "tiledeal.ai/internal/persistence/log"
	"tiledeal.ai/internal/protocol"
	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/partition"
	"tiledeal.ai/internal/sim/tuning"
)

func main() {
	var (
		tracePath = flag.String("trace", "", "path to trace-*.jsonl.zst")
		configDir = flag.String("configs", "./configs", "config directory")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *tracePath == "" {
		fmt.Fprintln(os.Stderr, "missing -trace")
		os.Exit(2)
	}

	tr, err := tracelog.ReadTrace(*tracePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read trace:", err)
		os.Exit(1)
	}
	fmt.Printf("trace deal=%s players=%d seed=%d max_attempts=%d attempts=%d digest=%s code=%s\n",
		tr.Header.DealID, tr.Header.Players, tr.Header.Seed, tr.Header.MaxAttempts,
		len(tr.Attempts), tr.Footer.Digest, tr.Footer.Code)

	cat, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	table, err := tuning.LoadDir(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load policies:", err)
		os.Exit(1)
	}

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	checked, err := replay(context.Background(), tr, cat, table, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d attempts\n", checked)
}

// replay re-runs the traced deal and compares every attempt and the final
// outcome with the recording.
func replay(ctx context.Context, tr *tracelog.Trace, cat *catalogs.Catalog, table tuning.Table, log logrus.FieldLogger) (int, error) {
	if tr.Header.CatalogDigest != cat.Digest() {
		return 0, fmt.Errorf("catalog digest mismatch: trace=%s configs=%s", tr.Header.CatalogDigest, cat.Digest())
	}

	var got []partition.AttemptEvent
	g := partition.NewGenerator(cat, table,
		partition.WithLogger(log),
		partition.WithMaxAttempts(tr.Header.MaxAttempts),
		partition.WithObserver(func(ev partition.AttemptEvent) { got = append(got, ev) }),
	)
	r, dealErr := g.Deal(ctx, tr.Header.Players, tr.Header.Seed)

	checked := 0
	for i, want := range tr.Attempts {
		if i >= len(got) {
			return checked, fmt.Errorf("trace has %d attempts, replay stopped after %d", len(tr.Attempts), len(got))
		}
		ev := got[i]
		if ev.Attempt != want.Attempt || ev.OK() != want.OK || ev.Player != want.Player || protocol.CodeFor(ev.Err) != want.Code {
			return checked, fmt.Errorf("attempt %d mismatch: want ok=%v code=%q player=%d got ok=%v code=%q player=%d",
				want.Attempt, want.OK, want.Code, want.Player, ev.OK(), protocol.CodeFor(ev.Err), ev.Player)
		}
		checked++
	}
	if len(got) != len(tr.Attempts) {
		return checked, fmt.Errorf("replay ran %d attempts, trace has %d", len(got), len(tr.Attempts))
	}

	if code := protocol.CodeFor(dealErr); code != tr.Footer.Code {
		return checked, fmt.Errorf("outcome mismatch: want code=%q got=%q (%v)", tr.Footer.Code, code, dealErr)
	}
	if r != nil && r.Digest() != tr.Footer.Digest {
		return checked, fmt.Errorf("digest mismatch: got=%s want=%s", r.Digest(), tr.Footer.Digest)
	}
	return checked, nil
}
