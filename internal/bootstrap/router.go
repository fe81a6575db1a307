package bootstrap

import (
	httpapi "github.com/dsfolio/dsfolio/internal/api/http"
	"github.com/dsfolio/dsfolio/internal/api/http/middleware"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/admin"
	"github.com/dsfolio/dsfolio/internal/auth"
	"github.com/dsfolio/dsfolio/internal/content"
	"github.com/dsfolio/dsfolio/internal/deploys"
	"github.com/dsfolio/dsfolio/internal/forms"
	"github.com/dsfolio/dsfolio/internal/sessions"
	"github.com/dsfolio/dsfolio/internal/site"
	"github.com/dsfolio/dsfolio/internal/storage/postgres"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Cfg      *config.Config
	DB       *pgxpool.Pool // optional: submissions return 503 without it
	Redis    *redis.Client // optional: rate limiting and sessions degrade without it
	Store    *content.Store
	Mailer   forms.Mailer
	Verifier auth.TokenVerifier // optional: admin routes are not mounted without it

	// TemplateGlob and StaticDir default to the repo layout; tests override.
	TemplateGlob string
	StaticDir    string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	glob := dep.TemplateGlob
	if glob == "" {
		glob = "templates/*.html"
	}
	r.LoadHTMLGlob(glob)

	staticDir := dep.StaticDir
	if staticDir == "" {
		staticDir = "./static"
	}
	r.Static("/static", staticDir)
	r.Static("/images", "./images")

	healthHandler := httpapi.NewHealthHandler("dsfolio", dep.Cfg.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	// Pages carry session bookkeeping when Redis is up.
	pages := r.Group("/")
	var sessionRepo *sessions.Repo
	if dep.Redis != nil {
		sessionRepo = sessions.NewRepo(dep.Redis)
		pages.Use(sessions.Middleware(sessionRepo))
	}

	siteHandler := site.NewHandler(dep.Store, dep.Cfg.Site.Name, dep.Cfg.Site.BaseURL, dep.Cfg.Site.Author)
	siteHandler.Register(pages)
	r.NoRoute(siteHandler.NotFound)

	api := r.Group("/api/v1")

	var submissionStore *postgres.SubmissionStore
	if dep.DB != nil {
		submissionStore = postgres.NewSubmissionStore(dep.DB)
	}

	formsHandler := forms.NewHandler(storeOrNil(submissionStore), dep.Mailer, dep.Cfg.Forms.SpamThreshold)
	if dep.Redis != nil {
		limiter := middleware.NewRateLimiter(dep.Redis, "forms", dep.Cfg.Forms.RateLimit, dep.Cfg.Forms.RateWindow)
		forms.Register(api, formsHandler, limiter.Middleware())
	} else {
		forms.Register(api, formsHandler)
	}

	var deployHandler *deploys.Handler
	if dep.Redis != nil {
		deployHandler = deploys.NewHandler(deploys.NewRepo(dep.Redis), dep.Cfg.Hooks.DeploySecret)
		deploys.Register(api, deployHandler)
	}

	if dep.Verifier != nil {
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.OwnerOnly(dep.Verifier, dep.Cfg.Admin.OwnerUIDs))
		admin.Register(adminGroup, admin.NewHandler(listerOrNil(submissionStore), sessionRepo, dep.Store))
		if deployHandler != nil {
			deploys.RegisterReads(adminGroup, deployHandler)
		}
	}

	return r
}

// storeOrNil keeps a typed-nil *SubmissionStore from masquerading as a
// non-nil forms.Store interface.
func storeOrNil(s *postgres.SubmissionStore) forms.Store {
	if s == nil {
		return nil
	}
	return s
}

func listerOrNil(s *postgres.SubmissionStore) admin.SubmissionLister {
	if s == nil {
		return nil
	}
	return s
}
