package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/session"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/metrics"

	categoryHandler "blog-backend/internal/domains/category/handler"
	categoryRepo "blog-backend/internal/domains/category/repository"
	categoryService "blog-backend/internal/domains/category/service"
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Pattern: Service Locator + Dependency Injection
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	Sessions   *session.RedisStore
	Queue      *queue.Client
	Cookies    *session.Cookies
	JWTManager *jwt.Manager
	Metrics    *metrics.Metrics

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	UserRepo     userRepo.UserRepository
	TokenRepo    userRepo.TokenRepository
	CategoryRepo categoryRepo.Repository
	PostRepo     postRepo.Repository
	CommentRepo  commentRepo.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	AuthService     userService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	PostService     postService.ServiceInterface
	CommentService  commentService.ServiceInterface

	// Resolver turns Authorization headers and session cookies into principals
	Resolver userService.ChainResolver

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
	PostHandler     *postHandler.PostHandler
	CommentHandler  *commentHandler.CommentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// QUAN TRỌNG: Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Redis, sessions) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REDIS, CACHE, SESSIONS
	// ========================================
	c.initRedis()

	c.Metrics = metrics.New()

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Schema is idempotent, safe on every start
	if c.Config.Database.AutoMigrate {
		if err := db.ApplySchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		log.Info().Msg("Database schema applied")
	}

	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	cfg := c.Config

	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis failure không chặn startup: category cache falls through to
	// Postgres and session logins fail until Redis is back
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, continuing")
	}

	c.Cache = infraCache.NewRedisCache(c.Redis.Client, cfg.Auth.SessionPrefix)
	c.Sessions = session.NewRedisStore(c.Redis.Client, cfg.Auth.SessionPrefix, cfg.Auth.SessionTTL)

	c.JWTManager = jwt.NewManager(cfg.Auth.SessionSecret)
	// asynq dùng chung Redis với sessions
	c.Queue = queue.NewClient(c.RedisConnOpt())

	c.Cookies = session.NewCookies(session.CookieOptions{
		Name:     cfg.Auth.SessionCookie,
		Path:     "/",
		Secure:   cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}, c.JWTManager)
}

// initRepositories khởi tạo tất cả repositories
func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.TokenRepo = userRepo.NewPostgresTokenRepository(pool)

	// Categories đọc nhiều, ghi ít: cache-aside qua Redis
	c.CategoryRepo = categoryRepo.NewCachedRepository(
		categoryRepo.NewPostgresRepository(pool),
		c.Cache,
		c.Config.Cache.CategoryListTTL,
		c.Metrics,
	)

	c.PostRepo = postRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
}

// initServices khởi tạo tất cả services
func (c *Container) initServices() {
	cfg := c.Config

	c.AuthService = userService.NewAuthService(
		c.UserRepo,
		c.TokenRepo,
		c.Sessions,
		c.Metrics,
		userService.Config{
			BcryptCost: cfg.Auth.BcryptCost,
			TokenBytes: cfg.Auth.TokenKeyLength,
		},
	)

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)

	c.PostService = postService.NewPostService(
		c.PostRepo,
		c.CommentRepo,
		c.CategoryService, // Cross-domain: category_id validation
		postService.Config{
			PageSize:             cfg.Posts.PageSize,
			DraftDetailOwnerOnly: cfg.Posts.DraftDetailOwnerOnly,
		},
	)

	var notifier commentService.Notifier
	if cfg.Worker.NotifyComments {
		notifier = c.Queue
	}
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostRepo, notifier)

	// Token trước, session sau
	c.Resolver = userService.ChainResolver{
		userService.NewTokenResolver(c.AuthService),
		userService.NewSessionResolver(c.AuthService, c.Cookies),
	}
}

// initHandlers khởi tạo tất cả HTTP handlers
func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.AuthService, c.Cookies)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
}

// ========================================
// HELPER METHODS
// ========================================

// RedisConnOpt builds the asynq connection options from the Redis config
func (c *Container) RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
