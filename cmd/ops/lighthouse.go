package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/bootstrap"
	"github.com/dsfolio/dsfolio/internal/monitor/lighthouse"
	"github.com/dsfolio/dsfolio/internal/storage/postgres"
)

// RunLighthouse audits the configured URLs and exits non-zero when the
// performance budget is violated, so CI can gate deploys on it.
func RunLighthouse(args []string) {
	fs := flag.NewFlagSet("lighthouse", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print the report as JSON")
	noStore := fs.Bool("no-store", false, "skip writing results to Postgres")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	var store lighthouse.Store
	if cfg.Database.DSN != "" && !*noStore {
		db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		store = postgres.NewLighthouseStore(db)
	}

	urls := cfg.Monitor.LighthouseURLs
	if fs.NArg() > 0 {
		urls = fs.Args()
	}

	runner := lighthouse.NewRunner(cfg.Monitor.LighthouseBin, lighthouse.DefaultBudget, store)
	report, err := runner.Audit(ctx, urls)
	if err != nil {
		log.Fatalf("lighthouse: %v", err)
	}

	if *jsonOut {
		printJSON(report)
	}

	if report.Failed() {
		for _, v := range report.Violations {
			log.Printf("budget violated: %s %s %.2f < %.2f", v.URL, v.Category, v.Score, v.Minimum)
		}
		os.Exit(1)
	}
	log.Printf("all %d URLs within budget", len(report.Runs))
}
