package container

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"happy-thoughts/internal/config"
	infraCache "happy-thoughts/internal/infrastructure/cache"
	"happy-thoughts/internal/infrastructure/database"
	"happy-thoughts/internal/infrastructure/filestore"
	"happy-thoughts/pkg/cache"
	"happy-thoughts/pkg/jwt"

	// Thought domain
	"happy-thoughts/internal/domains/thought/handler"
	thoughtJob "happy-thoughts/internal/domains/thought/job"
	"happy-thoughts/internal/domains/thought/model"
	thoughtRepo "happy-thoughts/internal/domains/thought/repository"
	thoughtService "happy-thoughts/internal/domains/thought/service"

	// User domain
	"happy-thoughts/internal/domains/user"
	userHandler "happy-thoughts/internal/domains/user/handler"
	userRepo "happy-thoughts/internal/domains/user/repository"
	userService "happy-thoughts/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Initialization order: config, infrastructure, repositories, services,
// handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB    // postgres driver only
	Mongo       *database.MongoDB       // mongo driver only
	Redis       *infraCache.RedisClient // nil when Redis is disabled
	Cache       cache.Cache             // nil disables tag caching
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client // nil when jobs are disabled

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	ThoughtRepo thoughtRepo.ThoughtRepository
	UserRepo    user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	ThoughtService thoughtService.ServiceInterface
	UserService    user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	ThoughtHandler *handler.ThoughtHandler
	UserHandler    *userHandler.UserHandler
}

// NewContainer loads the configuration and builds the dependency graph
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph from cfg
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	log.Info().
		Str("environment", cfg.App.Environment).
		Str("storage", cfg.Storage.Driver).
		Msg("Initializing DI container")

	c := &Container{Config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// ========================================
	// STEP 1: STORAGE BACKEND
	// ========================================
	if err := c.initStorage(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// STEP 2: CACHE AND JOB BROKER
	// ========================================
	if cfg.Redis.Enabled {
		redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Connect(ctx); err != nil {
			// Redis is not critical for serving thoughts
			log.Warn().Err(err).Msg("Redis connection failed, tag cache disabled")
			_ = redisClient.Close()
		} else {
			c.Redis = redisClient
			c.Cache = infraCache.NewRedisCache(redisClient, "happy-thoughts:")
		}
	}

	if cfg.Jobs.Enabled {
		c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
		log.Info().Msg("Asynq client initialized")
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// ========================================
	// STEP 3: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 4: HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// RedisClientOpt returns the asynq connection options for the configured
// Redis
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStorage(ctx context.Context) error {
	switch c.Config.Storage.Driver {
	case config.DriverPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}
		db := database.NewPostgresDB(dbConfig)
		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		c.ThoughtRepo = thoughtRepo.NewPostgresThoughtRepository(db.Pool)
		c.UserRepo = userRepo.NewPostgresRepository(db.Pool)

	case config.DriverMongo:
		m := database.NewMongoDB(&database.MongoConfig{
			URI:            c.Config.Mongo.URI,
			Database:       c.Config.Mongo.Database,
			ConnectTimeout: c.Config.Mongo.ConnectTimeout,
			MaxRetries:     c.Config.Mongo.MaxRetries,
		})
		if err := m.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		c.Mongo = m
		if err := thoughtRepo.EnsureThoughtIndexes(ctx, m.Database); err != nil {
			return err
		}
		if err := userRepo.EnsureUserIndexes(ctx, m.Database); err != nil {
			return err
		}
		c.ThoughtRepo = thoughtRepo.NewMongoThoughtRepository(m.Database)
		c.UserRepo = userRepo.NewMongoRepository(m.Database)

	default:
		opts := filestore.DefaultOptions()
		tr, err := thoughtRepo.NewFileThoughtRepository(filepath.Join(c.Config.Storage.DataDir, "thoughts.json"), opts)
		if err != nil {
			return fmt.Errorf("failed to open thoughts file: %w", err)
		}
		ur, err := userRepo.NewFileRepository(filepath.Join(c.Config.Storage.DataDir, "users.json"), opts)
		if err != nil {
			return fmt.Errorf("failed to open users file: %w", err)
		}
		c.ThoughtRepo = tr
		c.UserRepo = ur
	}

	log.Info().Str("driver", c.Config.Storage.Driver).Msg("Repositories initialized")
	return nil
}

func (c *Container) initServices() {
	c.ThoughtService = thoughtService.NewThoughtService(c.ThoughtRepo, c.Cache, thoughtService.Options{
		Bounds: model.MessageBounds{
			Min: c.Config.Thought.MinLength,
			Max: c.Config.Thought.MaxLength,
		},
		TagsCacheTTL: c.Config.Thought.TagsCacheTTL,
	})

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, userService.Options{
		AdminUsernames: c.Config.AdminUsernames,
	})
}

func (c *Container) initHandlers() {
	var enqueuer handler.BackfillEnqueuer
	if c.AsynqClient != nil {
		enqueuer = thoughtJob.NewEnqueuer(c.AsynqClient)
	}
	c.ThoughtHandler = handler.NewThoughtHandler(c.ThoughtService, enqueuer)

	c.UserHandler = userHandler.NewUserHandler(
		c.UserService,
		c.Config.JWT.RefreshTokenExpiry,
		c.Config.IsProduction(),
	)
}

// ========================================
// HEALTH AND CLEANUP
// ========================================

// HealthChecks returns a named ping per configured dependency
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"storage": c.ThoughtRepo.Ping,
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis.HealthCheck
	}
	return checks
}

// Cleanup releases resources on shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect from mongo")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
