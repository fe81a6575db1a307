package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Site     SiteConfig
	Content  ContentConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mail     MailConfig
	Forms    FormsConfig
	Hooks    HooksConfig
	Admin    AdminConfig
	Monitor  MonitorConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type SiteConfig struct {
	Name    string
	BaseURL string
	Author  string
}

type ContentConfig struct {
	Root     string
	IndexDir string
	Watch    bool
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	To       string
}

type FormsConfig struct {
	SpamThreshold int
	RateLimit     int
	RateWindow    time.Duration
}

type HooksConfig struct {
	DeploySecret string
}

type AdminConfig struct {
	CredentialsFile string
	OwnerUIDs       []string
}

type MonitorConfig struct {
	CronEnabled    bool
	LighthouseBin  string
	LighthouseURLs []string
	AuditDir       string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Site: SiteConfig{
			Name:    getEnv("SITE_NAME", "dsfolio"),
			BaseURL: strings.TrimRight(getEnv("SITE_BASE_URL", "http://localhost:8080"), "/"),
			Author:  getEnv("SITE_AUTHOR", ""),
		},
		Content: ContentConfig{
			Root:     getEnv("CONTENT_ROOT", "content"),
			IndexDir: getEnv("CONTENT_INDEX_DIR", "index"),
			Watch:    getEnvAsBool("CONTENT_WATCH", true),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Mail: MailConfig{
			SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort: getEnv("SMTP_PORT", "587"),
			SMTPUser: getEnv("SMTP_USER", ""),
			SMTPPass: getEnv("SMTP_PASS", ""),
			To:       getEnv("CONTACT_TO_EMAIL", ""),
		},
		Forms: FormsConfig{
			SpamThreshold: getEnvAsInt("FORM_SPAM_THRESHOLD", 60),
			RateLimit:     getEnvAsInt("FORM_RATE_LIMIT", 5),
			RateWindow:    getEnvAsDuration("FORM_RATE_WINDOW", time.Hour),
		},
		Hooks: HooksConfig{
			DeploySecret: getEnv("DEPLOY_WEBHOOK_SECRET", ""),
		},
		Admin: AdminConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			OwnerUIDs:       getEnvAsList("ADMIN_OWNER_UIDS"),
		},
		Monitor: MonitorConfig{
			CronEnabled:    getEnvAsBool("MONITOR_CRON_ENABLED", false),
			LighthouseBin:  getEnv("LIGHTHOUSE_BIN", "lighthouse"),
			LighthouseURLs: getEnvAsList("LIGHTHOUSE_URLS"),
			AuditDir:       getEnv("AUDIT_DIR", "."),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Content.Root == "" {
		return fmt.Errorf("CONTENT_ROOT is required")
	}

	if c.App.Environment == "production" && c.Hooks.DeploySecret == "" {
		return fmt.Errorf("DEPLOY_WEBHOOK_SECRET is required in production")
	}

	return nil
}

// IsProduction reports whether the app runs with production settings.
// Draft content is only visible outside production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
