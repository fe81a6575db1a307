package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/monitor/depaudit"
	"github.com/dsfolio/dsfolio/internal/monitor/freshness"
	"github.com/dsfolio/dsfolio/internal/monitor/lighthouse"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring site maintenance jobs: nightly freshness
// and Lighthouse checks, a weekly npm audit.
type Scheduler struct {
	store   *content.Store
	runner  *lighthouse.Runner
	auditor *depaudit.Auditor
	urls    []string

	cron *cron.Cron
}

func NewScheduler(store *content.Store, runner *lighthouse.Runner, auditor *depaudit.Auditor, urls []string) *Scheduler {
	return &Scheduler{store: store, runner: runner, auditor: auditor, urls: urls}
}

// Start registers the jobs and kicks off the cron loop.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	// Nightly at 3:00 AM.
	if _, err := c.AddFunc("0 0 3 * * *", s.runNightlyJobs); err != nil {
		log.Printf("[cron] failed to register nightly job: %v", err)
		return
	}

	// Weekly, Monday 4:00 AM.
	if _, err := c.AddFunc("0 0 4 * * 1", s.runWeeklyJobs); err != nil {
		log.Printf("[cron] failed to register weekly job: %v", err)
		return
	}

	log.Println("[cron] scheduler started (nightly 3:00AM, weekly Mon 4:00AM)")
	c.Start()
	s.cron = c
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runNightlyJobs() {
	log.Println("[cron] nightly job started (freshness + lighthouse)")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	if s.store != nil {
		report := freshness.Check(s.store.Current(), freshness.DefaultThresholds, time.Now())
		if len(report.Stale) > 0 {
			log.Printf("[cron] freshness:\n%s", report.Text())
		} else {
			log.Printf("[cron] freshness: all %d entries current", report.Total)
		}
	}

	if s.runner != nil && len(s.urls) > 0 {
		report, err := s.runner.Audit(ctx, s.urls)
		if err != nil {
			log.Printf("[cron] lighthouse failed: %v", err)
			return
		}
		if report.Failed() {
			log.Printf("[cron] lighthouse budget violated: %d categories under budget", len(report.Violations))
		}
	}

	log.Println("[cron] nightly job completed at:", time.Now().Format(time.RFC1123))
}

func (s *Scheduler) runWeeklyJobs() {
	if s.auditor == nil {
		return
	}
	log.Println("[cron] weekly job started (npm audit)")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := s.auditor.Run(ctx)
	if err != nil {
		log.Printf("[cron] npm audit failed: %v", err)
		return
	}
	if report.AboveFloor(depaudit.SeverityHigh) {
		log.Printf("[cron] npm audit found high severity issues:\n%s", report.Text())
	}

	log.Println("[cron] weekly job completed at:", time.Now().Format(time.RFC1123))
}
