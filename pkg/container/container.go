package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/config"
	bookHandler "bookreview-backend/internal/domains/book/handler"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	bookService "bookreview-backend/internal/domains/book/service"
	reviewHandler "bookreview-backend/internal/domains/review/handler"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	reviewService "bookreview-backend/internal/domains/review/service"
	userHandler "bookreview-backend/internal/domains/user/handler"
	userRepo "bookreview-backend/internal/domains/user/repository"
	userService "bookreview-backend/internal/domains/user/service"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/infrastructure/memstore"
	"bookreview-backend/internal/infrastructure/mongodb"
	"bookreview-backend/pkg/jwt"
)

const poolMonitorInterval = time.Minute

// Container holds every dependency of the API process.
// Built once at startup, shared by the router and closed on shutdown.
type Container struct {
	Config *config.Config

	// ========================================
	// INFRASTRUCTURE
	// ========================================
	// Exactly one of these is set, depending on STORE_DRIVER.
	DB       *database.PostgresDB
	Mongo    *mongodb.MongoDB
	MemStore *memstore.DB

	JWTManager *jwt.Manager

	stopMonitor context.CancelFunc

	// ========================================
	// REPOSITORIES
	// ========================================
	UserRepo   userRepo.UserRepository
	BookRepo   bookRepo.BookRepository
	ReviewRepo reviewRepo.ReviewRepository

	// ========================================
	// SERVICES
	// ========================================
	UserService       userService.Service
	BookService       bookService.ServiceInterface
	BookDetailService bookService.DetailServiceInterface
	ReviewService     reviewService.ServiceInterface

	// ========================================
	// HANDLERS
	// ========================================
	UserHandler   *userHandler.UserHandler
	BookHandler   *bookHandler.Handler
	ReviewHandler *reviewHandler.ReviewHandler
}

// NewContainer loads config from the environment and builds the container.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig builds the container in layer order:
// infrastructure, repositories, services, handlers.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	log.Info().Str("driver", cfg.Store.Driver).Msg("[CONTAINER] Connecting store")
	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	tokenTTL := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Hour
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, tokenTTL)

	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] Initialized")
	return c, nil
}

// initStore connects the configured backend and builds its repositories.
func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		dbCfg, err := config.LoadDatabaseConfig()
		if err != nil {
			return err
		}
		c.DB = database.NewPostgresDB(dbCfg)
		if err := c.DB.Connect(ctx); err != nil {
			return err
		}
		if err := database.EnsureSchema(ctx, c.DB.Pool); err != nil {
			return err
		}

		monitorCtx, cancel := context.WithCancel(context.Background())
		c.stopMonitor = cancel
		go c.DB.MonitorPoolHealth(monitorCtx, poolMonitorInterval)

		c.UserRepo = userRepo.NewPostgresUserRepository(c.DB.Pool)
		c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
		c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(c.DB.Pool)

	case config.StoreDriverMongo:
		c.Mongo = mongodb.NewMongoDB(c.Config.Mongo.URI, c.Config.Mongo.Database, c.Config.Mongo.ConnectTimeout)
		if err := c.Mongo.Connect(ctx); err != nil {
			return err
		}
		if err := c.Mongo.EnsureIndexes(ctx); err != nil {
			return err
		}

		c.UserRepo = userRepo.NewMongoUserRepository(c.Mongo.Database)
		c.BookRepo = bookRepo.NewMongoRepository(c.Mongo.Database)
		c.ReviewRepo = reviewRepo.NewMongoReviewRepository(c.Mongo.Database)

	case config.StoreDriverMemory:
		c.MemStore = memstore.New()

		c.UserRepo = userRepo.NewMemoryUserRepository(c.MemStore)
		c.BookRepo = bookRepo.NewMemoryRepository(c.MemStore)
		c.ReviewRepo = reviewRepo.NewMemoryReviewRepository(c.MemStore)

	default:
		return fmt.Errorf("unsupported store driver %q", c.Config.Store.Driver)
	}
	return nil
}

func (c *Container) initServices() {
	timeout := c.Config.Store.Timeout

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.JWTManager.TTL(),
		c.Config.Auth.BcryptCost,
		timeout,
	)
	c.BookService = bookService.NewService(c.BookRepo, timeout)
	c.BookDetailService = bookService.NewDetailService(c.BookRepo, c.ReviewRepo, timeout)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo, timeout)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService, c.BookDetailService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// HealthCheck pings whichever store is active.
func (c *Container) HealthCheck(ctx context.Context) error {
	switch {
	case c.DB != nil:
		return c.DB.HealthCheck(ctx)
	case c.Mongo != nil:
		return c.Mongo.HealthCheck(ctx)
	case c.MemStore != nil:
		return c.MemStore.HealthCheck(ctx)
	}
	return fmt.Errorf("no store configured")
}

// Cleanup releases the store connections. Safe to call on a partially built container.
func (c *Container) Cleanup() {
	if c.stopMonitor != nil {
		c.stopMonitor()
	}
	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("[CONTAINER] Database connections closed")
	}
	if c.Mongo != nil {
		c.Mongo.Close()
		log.Info().Msg("[CONTAINER] Mongo client disconnected")
	}
	if c.MemStore != nil {
		c.MemStore.Close()
	}
}
