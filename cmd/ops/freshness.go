package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/monitor/freshness"
)

// RunFreshness reports stale content. Exits non-zero when anything is
// stale so a cron wrapper can alert on it.
func RunFreshness(args []string) {
	fs := flag.NewFlagSet("freshness", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print the report as JSON")
	postDays := fs.Int("post-days", 180, "days before a post counts as stale")
	projectDays := fs.Int("project-days", 365, "days before a project counts as stale")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	idx, err := content.Build(content.BuildOptions{Root: cfg.Content.Root, IncludeDrafts: true})
	if err != nil {
		log.Fatalf("content: %v", err)
	}

	th := freshness.Thresholds{
		Post:    time.Duration(*postDays) * 24 * time.Hour,
		Project: time.Duration(*projectDays) * 24 * time.Hour,
		Page:    time.Duration(*projectDays) * 24 * time.Hour,
	}
	report := freshness.Check(idx, th, time.Now())

	if *jsonOut {
		printJSON(report)
	} else {
		fmt.Print(report.Text())
	}

	if len(report.Stale) > 0 {
		os.Exit(1)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encode report: %v", err)
	}
	fmt.Println(string(out))
}
