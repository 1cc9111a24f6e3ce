package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSessionSecret = "change-me-session-secret"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Posts    PostsConfig
	Cache    CacheConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// AuthConfig covers password hashing and the browser session cookie.
type AuthConfig struct {
	BcryptCost     int
	SessionCookie  string
	SessionTTL     time.Duration
	SessionSecret  string
	SecureCookies  bool
	SessionPrefix  string
	TokenKeyLength int // random bytes, hex-encoded into the token key
}

type PostsConfig struct {
	PageSize int
	// DraftDetailOwnerOnly hides drafts from non-owners on the detail endpoint.
	DraftDetailOwnerOnly bool
}

type CacheConfig struct {
	CategoryListTTL time.Duration
}

// WorkerConfig covers the asynq worker and the mail it sends.
type WorkerConfig struct {
	NotifyComments   bool
	Concurrency      int
	SessionPruneCron string
	HealthAddr       string
	PublicBaseURL    string // used in links inside emails
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "blog"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			BcryptCost:     getEnvInt("AUTH_BCRYPT_COST", 12),
			SessionCookie:  getEnv("SESSION_COOKIE_NAME", "blog_session"),
			SessionTTL:     getEnvDuration("SESSION_TTL", 14*24*time.Hour),
			SessionSecret:  getEnv("SESSION_SECRET", defaultSessionSecret),
			SecureCookies:  getEnvBool("SESSION_COOKIE_SECURE", false),
			SessionPrefix:  getEnv("SESSION_KEY_PREFIX", "blog:"),
			TokenKeyLength: getEnvInt("AUTH_TOKEN_BYTES", 20),
		},
		Posts: PostsConfig{
			PageSize:             getEnvInt("POSTS_PAGE_SIZE", 10),
			DraftDetailOwnerOnly: getEnvBool("POSTS_DRAFT_DETAIL_OWNER_ONLY", false),
		},
		Cache: CacheConfig{
			CategoryListTTL: getEnvDuration("CACHE_CATEGORY_LIST_TTL", 10*time.Minute),
		},
		Worker: WorkerConfig{
			NotifyComments:   getEnvBool("NOTIFY_COMMENTS", true),
			Concurrency:      getEnvInt("WORKER_CONCURRENCY", 10),
			SessionPruneCron: getEnv("SESSION_PRUNE_CRON", "@hourly"),
			HealthAddr:       getEnv("WORKER_HEALTH_ADDR", ":9999"),
			PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			SMTPHost:         getEnv("SMTP_HOST", "localhost"),
			SMTPPort:         getEnv("SMTP_PORT", "1025"),
			SMTPFrom:         getEnv("SMTP_FROM", "noreply@blog.dev"),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Posts.PageSize < 1 {
		return fmt.Errorf("POSTS_PAGE_SIZE must be positive")
	}
	if c.Auth.TokenKeyLength < 16 {
		return fmt.Errorf("AUTH_TOKEN_BYTES must be at least 16")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31")
	}

	// Production environment phải có secret thật
	if c.App.Environment == "production" {
		if c.Auth.SessionSecret == defaultSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
