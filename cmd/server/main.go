package main

import (
	"context"
	"log"
	"time"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/auth"
	"github.com/dsfolio/dsfolio/internal/bootstrap"
	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/forms"
	cronjob "github.com/dsfolio/dsfolio/internal/monitor/cron"
	"github.com/dsfolio/dsfolio/internal/monitor/depaudit"
	"github.com/dsfolio/dsfolio/internal/monitor/lighthouse"
	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var db *pgxpool.Pool
	if cfg.Database.DSN != "" {
		db, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("DB_DSN not set, running without Postgres (submissions won't persist)")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Printf("redis unavailable, sessions/deploys/rate-limits disabled: %v", err)
			rdb = nil
		}
	}

	store, err := content.NewStore(content.BuildOptions{
		Root:          cfg.Content.Root,
		IncludeDrafts: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("content: %v", err)
	}

	if cfg.Content.Watch {
		watchCtx := context.Background()
		go func() {
			if err := content.Watch(watchCtx, store, cfg.Content.Root); err != nil {
				log.Printf("content watcher stopped: %v", err)
			}
		}()
	}

	var verifier auth.TokenVerifier
	if cfg.Admin.CredentialsFile != "" {
		client, err := auth.InitializeFirebase(cfg.Admin)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		verifier = &auth.FirebaseVerifier{Client: client}
	} else {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, admin API disabled")
	}

	var mailer forms.Mailer
	if cfg.Mail.SMTPUser != "" && cfg.Mail.SMTPPass != "" {
		mailer = forms.NewSMTPMailer(cfg.Mail)
	} else {
		log.Println("SMTP credentials not set, contact mail disabled")
	}

	if cfg.Monitor.CronEnabled {
		var lhStore lighthouse.Store
		if db != nil {
			lhStore = postgres.NewLighthouseStore(db)
		}
		runner := lighthouse.NewRunner(cfg.Monitor.LighthouseBin, lighthouse.DefaultBudget, lhStore)
		scheduler := cronjob.NewScheduler(store, runner, depaudit.NewAuditor(cfg.Monitor.AuditDir), cfg.Monitor.LighthouseURLs)
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Cfg:      cfg,
		DB:       db,
		Redis:    rdb,
		Store:    store,
		Mailer:   mailer,
		Verifier: verifier,
	})

	log.Printf("listening on :%s (env=%s)", cfg.Server.Port, cfg.App.Environment)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
