package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitstudio-backend/internal/config"
	infraCache "fitstudio-backend/internal/infrastructure/cache"
	"fitstudio-backend/internal/infrastructure/database"
	"fitstudio-backend/internal/infrastructure/queue"
	"fitstudio-backend/internal/infrastructure/storage"
	"fitstudio-backend/pkg/cache"
	"fitstudio-backend/pkg/jwt"

	discountHandler "fitstudio-backend/internal/domains/discount/handler"
	discountRepo "fitstudio-backend/internal/domains/discount/repository"
	discountService "fitstudio-backend/internal/domains/discount/service"
	offeringHandler "fitstudio-backend/internal/domains/offering/handler"
	offeringRepo "fitstudio-backend/internal/domains/offering/repository"
	offeringService "fitstudio-backend/internal/domains/offering/service"
	staffHandler "fitstudio-backend/internal/domains/staff/handler"
	staffRepo "fitstudio-backend/internal/domains/staff/repository"
	staffService "fitstudio-backend/internal/domains/staff/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application and is the root
// of the dependency graph. Everything in here is a singleton built
// once at startup.
type Container struct {
	// ----------------------------------------
	// Infrastructure
	// ----------------------------------------
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	Queue      *queue.Client
	JWTManager *jwt.Manager

	// ----------------------------------------
	// Repositories
	// ----------------------------------------
	DiscountCatalog discountRepo.CatalogStore
	DiscountLedger  discountRepo.LedgerStore
	StaffRepo       staffRepo.StaffRepository
	OfferingRepo    offeringRepo.OfferingRepository
	OfferingImages  offeringRepo.ImageRepository

	// ----------------------------------------
	// Services
	// ----------------------------------------
	DiscountService       discountService.ServiceInterface
	DiscountReportService discountService.ReportServiceInterface
	StaffService          staffService.ServiceInterface
	OfferingService       offeringService.ServiceInterface
	OfferingImageService  offeringService.ImageServiceInterface

	// ----------------------------------------
	// HTTP handlers
	// ----------------------------------------
	DiscountAdminHandler *discountHandler.AdminHandler
	DiscountPOSHandler   *discountHandler.POSHandler
	StaffHandler         *staffHandler.StaffHandler
	OfferingHandler      *offeringHandler.OfferingHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the whole dependency graph in order:
// config, then infrastructure, then repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ----------------------------------------
	// Step 1: configuration
	// ----------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	// ----------------------------------------
	// Step 2: PostgreSQL
	// ----------------------------------------
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("database connected")

	// ----------------------------------------
	// Step 3: Redis cache
	// ----------------------------------------
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		// The cache is an accelerator, not a requirement. Services
		// treat misses and cache errors the same way.
		log.Printf("redis connection failed (non-critical): %v", err)
	} else {
		log.Println("redis connected")
	}
	c.Redis = redisClient
	c.Cache = infraCache.NewRedisCache(redisClient)

	// ----------------------------------------
	// Step 4: object storage
	// ----------------------------------------
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("object storage ready")

	// ----------------------------------------
	// Step 5: task queue client
	// ----------------------------------------
	c.Queue = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	// ----------------------------------------
	// Step 6: auth
	// ----------------------------------------
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ----------------------------------------
	// Steps 7-9: domain layers
	// ----------------------------------------
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.DiscountCatalog = discountRepo.NewPostgresCatalogStore(pool)
	c.DiscountLedger = discountRepo.NewPostgresLedgerStore(pool)
	c.StaffRepo = staffRepo.NewPostgresRepository(pool)
	c.OfferingRepo = offeringRepo.NewPostgresRepository(pool)
	c.OfferingImages = offeringRepo.NewPostgresImageRepository(pool)
}

func (c *Container) initServices() {
	imageProcessor := storage.NewImageProcessor()

	c.DiscountService = discountService.NewService(c.DiscountCatalog, c.DiscountLedger, c.Cache, nil)
	c.DiscountReportService = discountService.NewReportService(c.DiscountCatalog, c.DiscountLedger, c.Storage, nil)
	c.StaffService = staffService.NewService(c.StaffRepo, c.JWTManager)
	c.OfferingImageService = offeringService.NewImageService(c.OfferingImages, c.Storage, imageProcessor)
	c.OfferingService = offeringService.NewService(
		c.OfferingRepo,
		c.OfferingImages,
		c.OfferingImageService,
		c.Cache,
		c.Queue,
	)
}

func (c *Container) initHandlers() {
	c.DiscountAdminHandler = discountHandler.NewAdminHandler(c.DiscountService, c.DiscountReportService)
	c.DiscountPOSHandler = discountHandler.NewPOSHandler(c.DiscountService)
	c.StaffHandler = staffHandler.NewStaffHandler(c.StaffService)
	c.OfferingHandler = offeringHandler.NewOfferingHandler(c.OfferingService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections during graceful shutdown.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("failed to close queue client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	log.Println("container cleanup completed")
}
