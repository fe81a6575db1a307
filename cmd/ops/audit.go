package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/monitor/depaudit"
)

// RunAudit checks the site's npm dependency tree. Exits non-zero when
// anything at or above the severity floor is found.
func RunAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print the report as JSON")
	floor := fs.String("floor", depaudit.SeverityHigh, "lowest severity that fails the audit (low|moderate|high|critical)")
	dir := fs.String("dir", "", "directory holding package.json (defaults to AUDIT_DIR)")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dir == "" {
		*dir = cfg.Monitor.AuditDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := depaudit.NewAuditor(*dir).Run(ctx)
	if err != nil {
		log.Fatalf("audit: %v", err)
	}

	if *jsonOut {
		printJSON(report)
	} else {
		fmt.Print(report.Text())
	}

	if report.AboveFloor(*floor) {
		os.Exit(1)
	}
}
