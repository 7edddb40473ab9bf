package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	tracelog "tiledeal.ai/internal/persistence/log"
	"tiledeal.ai/internal/protocol"
	"tiledeal.ai/internal/render"
	"tiledeal.ai/internal/sim/batch"
	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/partition"
	"tiledeal.ai/internal/sim/tuning"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(stderr, "load .env:", err)
		return 1
	}

	fset := flag.NewFlagSet("deal", flag.ContinueOnError)
	fset.SetOutput(stderr)
	var (
		seed      = fset.Int64("seed", 0, "random seed; when omitted one is derived from the clock and printed")
		configDir = fset.String("configs", envOr("TILEDEAL_CONFIGS", "./configs"), "config directory (tiles.json, policies.yaml)")
		format    = fset.String("format", render.FormatText, "output format: text|html|json")
		traceDir  = fset.String("trace", os.Getenv("TILEDEAL_TRACE_DIR"), "write an attempt trace into this directory (optional)")
		attempts  = fset.Int("max_attempts", 0, "override the attempt bound from policies.yaml")
		count     = fset.Int("count", 0, "deal this many consecutive seeds and print attempt statistics instead of a deal (not with -trace or -format)")
		workers   = fset.Int("workers", 0, "parallel deals for -count (0 = GOMAXPROCS)")
		verbose   = fset.Bool("v", false, "debug logging")
		logJSON   = fset.Bool("log_json", false, "log as JSON")
		list      = fset.Bool("list", false, "print supported player counts and exit")
	)
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: deal <num_players> [flags]")
		fset.PrintDefaults()
	}

	// Allow flags on either side of the player count.
	if err := fset.Parse(args); err != nil {
		return 2
	}
	rest := fset.Args()
	if len(rest) > 0 {
		if err := fset.Parse(rest[1:]); err != nil {
			return 2
		}
		rest = append(rest[:1:1], fset.Args()...)
	}
	set := map[string]bool{}
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })

	logger := logrus.New()
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if *logJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	cat, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(stderr, "load catalogs:", err)
		return 1
	}
	table, err := tuning.LoadDir(*configDir)
	if err != nil {
		fmt.Fprintln(stderr, "load policies:", err)
		return 1
	}

	if *list {
		for _, n := range table.PlayerCounts() {
			fmt.Fprintln(stdout, n)
		}
		return 0
	}

	if len(rest) != 1 {
		fset.Usage()
		return 2
	}
	players, err := strconv.Atoi(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "bad num_players %q\n", rest[0])
		return 2
	}
	if _, err := table.Lookup(players); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if !render.Supported(*format) {
		fmt.Fprintf(stderr, "unknown format %q (supported: %v)\n", *format, render.Formats())
		return 2
	}
	if *count > 0 && (set["trace"] || set["format"]) {
		fmt.Fprintln(stderr, "-count prints statistics only; drop -trace and -format")
		return 2
	}
	if !set["seed"] {
		*seed = time.Now().UnixNano()
	}

	opts := []partition.Option{partition.WithLogger(logger), partition.WithMaxAttempts(*attempts)}

	if *count > 0 {
		g := partition.NewGenerator(cat, table, opts...)
		start := time.Now()
		sum, err := batch.Run(ctx, g, players, batch.Seeds(*seed, *count), *workers)
		if err != nil {
			fmt.Fprintln(stderr, "batch:", err)
			return 1
		}
		fmt.Fprintf(stdout, "players=%d deals=%s ok=%s first_seed=%d elapsed=%s\n",
			players, humanize.Comma(int64(sum.Deals)), humanize.Comma(int64(sum.Succeeded)), *seed, time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(stdout, "attempts mean=%.2f p50=%d p99=%d max=%d\n",
			sum.MeanAttempts(), sum.Percentile(50), sum.Percentile(99), sum.MaxAttempts())
		for code, n := range sum.Failures {
			fmt.Fprintf(stdout, "failed %s: %s\n", code, humanize.Comma(int64(n)))
		}
		if len(sum.Failures) > 0 {
			return 1
		}
		return 0
	}

	dealID := protocol.NewDealID()
	var tw *tracelog.TraceWriter
	if *traceDir != "" {
		tw = tracelog.NewTraceWriter(*traceDir, dealID)
		opts = append(opts, partition.WithObserver(tw.Observe))
	}
	g := partition.NewGenerator(cat, table, opts...)
	if tw != nil {
		if err := tw.Begin(tracelog.TraceHeader{
			DealID:        dealID,
			Players:       players,
			Seed:          *seed,
			CatalogDigest: cat.Digest(),
			MaxAttempts:   g.MaxAttempts(),
		}); err != nil {
			fmt.Fprintln(stderr, "trace:", err)
			return 1
		}
	}

	log := logger.WithFields(logrus.Fields{"deal_id": dealID, "players": players, "seed": *seed})
	r, dealErr := g.Deal(ctx, players, *seed)
	if tw != nil {
		if err := tw.Finish(r, dealErr); err != nil {
			log.WithError(err).Warn("trace not written")
		} else {
			log.WithField("path", tw.Path()).Info("trace written")
		}
	}
	if dealErr != nil {
		log.WithField("code", protocol.CodeFor(dealErr)).Error(dealErr)
		if *format == render.FormatJSON {
			_ = render.JSONError(stdout, protocol.NewErrorMsg(dealID, players, *seed, dealErr))
		}
		return 1
	}

	log.WithField("attempts", r.Attempts).Info("deal ready")
	if err := render.Render(stdout, *format, protocol.NewDealMsg(dealID, cat, r)); err != nil {
		fmt.Fprintln(stderr, "render:", err)
		return 1
	}
	return 0
}
