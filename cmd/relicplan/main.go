// Command relicplan prints the expected yields and set totals of a farming
// plan.
//
//	relicplan -plans ./config -plan weekly [-catalog relics.json] [-watch] [-simulate 100000]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xtding233/relic-planner/internal/catalog"
	"github.com/xtding233/relic-planner/internal/config"
	"github.com/xtding233/relic-planner/internal/plan"
	"github.com/xtding233/relic-planner/internal/relic"
	"github.com/xtding233/relic-planner/internal/report"
	"github.com/xtding233/relic-planner/internal/simulate"
)

type options struct {
	catalogSrc string
	planDir    string
	planName   string
	locale     string
	watch      bool
	trials     int
	seed       uint64
	interval   time.Duration
	timeout    time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	var opts options
	defaultSrc := cfg.CatalogURL
	if cfg.CatalogFile != "" {
		defaultSrc = cfg.CatalogFile
	}
	flag.StringVar(&opts.catalogSrc, "catalog", defaultSrc, "relic catalog: file path or http(s) URL")
	flag.StringVar(&opts.planDir, "plans", cfg.PlanDir, "directory holding plans/<name>.yaml")
	flag.StringVar(&opts.planName, "plan", "default", "plan name")
	flag.StringVar(&opts.locale, "locale", cfg.Locale, "number formatting locale")
	flag.BoolVar(&opts.watch, "watch", false, "re-render when the plan files change")
	flag.IntVar(&opts.trials, "simulate", 0, "Monte Carlo trials per relic (0 to skip)")
	flag.Uint64Var(&opts.seed, "seed", 0, "seed for -simulate (0 for a random source)")
	flag.Parse()
	opts.interval = cfg.WatchInterval
	opts.timeout = cfg.FetchTimeout

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, opts); err != nil {
		log.Fatal(err)
	}
}

func loadCatalog(ctx context.Context, src string, timeout time.Duration) (*catalog.Catalog, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return catalog.Fetch(ctx, &http.Client{Timeout: timeout}, src)
	}
	return catalog.LoadFile(src)
}

func run(ctx context.Context, w io.Writer, opts options) error {
	cat, err := loadCatalog(ctx, opts.catalogSrc, opts.timeout)
	if err != nil {
		return err
	}
	loader := plan.NewLoader(opts.planDir)
	pr := report.New(opts.locale)

	if err := render(w, cat, loader, pr, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	paths := []string{loader.Paths().DefaultPath(), loader.Paths().PlanPath(opts.planName)}
	watcher := plan.NewWatcher(paths, opts.interval, func(changed []string) {
		log.Printf("%s changed, recomputing", strings.Join(changed, ", "))
		loader.Invalidate()
		if err := render(w, cat, loader, pr, opts); err != nil {
			log.Printf("render: %v", err)
		}
	})
	watcher.Run(ctx)
	return nil
}

func render(w io.Writer, cat *catalog.Catalog, loader *plan.Loader, pr *report.Printer, opts options) error {
	doc, err := loader.LoadMerged(opts.planName)
	if err != nil {
		return err
	}
	if err := plan.Validate(doc); err != nil {
		return err
	}
	states, err := plan.Resolve(cat, doc)
	if err != nil {
		// unresolved entries are skipped, the rest still counts
		log.Printf("plan %s: %v", opts.planName, err)
	}

	var rng simulate.RandomSource
	if opts.seed != 0 {
		rng = simulate.NewSeededRNG(opts.seed)
	}
	for _, s := range states {
		run, ok := s.Run()
		if !ok {
			continue
		}
		yields, err := s.Yield()
		if err != nil {
			log.Printf("plan %s: %v", opts.planName, err)
			continue
		}
		if err := pr.Relic(w, s.Relic().Name, run, s.Amount(), yields); err != nil {
			return err
		}
		if opts.trials > 0 {
			stats, err := simulate.RunMonteCarlo(simulate.Params{Run: run, Rewards: s.Rewards(), Offcycle: s.Offcycle()}, opts.trials, rng)
			if err != nil {
				return err
			}
			// simulated means are per cycle, compare against one copy
			single, err := s.WithAmount(1).Yield()
			if err != nil {
				return err
			}
			if err := pr.Simulation(w, stats, single); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}
	return pr.Totals(w, relic.Aggregate(states))
}
