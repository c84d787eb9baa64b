package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/bulkupload"
	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/domain/media"
	"github.com/maisonbelle/salon-site/internal/domain/site"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/auth"
	"github.com/maisonbelle/salon-site/internal/infrastructure/authprovider"
	"github.com/maisonbelle/salon-site/internal/infrastructure/cache"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/adminrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/chatrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/contentrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/inquiryrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/infrastructure/knowledgebase"
	"github.com/maisonbelle/salon-site/internal/infrastructure/logger"
	"github.com/maisonbelle/salon-site/internal/infrastructure/ratelimit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/retention"
	"github.com/maisonbelle/salon-site/internal/infrastructure/storage"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/handlers"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/pkg/observability"
	"github.com/maisonbelle/salon-site/pkg/observability/worker"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
	"github.com/maisonbelle/salon-site/web"
)

// @title Salon Site API
// @version 1.0
// @description Public site content, keyword chatbot, contact inquiries and the admin back office.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the auth provider access token.
type Application struct {
	httpServer *httpserver.HttpServer
	knowledge  *knowledgebase.Store
	retention  *retention.Scheduler
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, knowledge *knowledgebase.Store, scheduler *retention.Scheduler, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		knowledge:  knowledge,
		retention:  scheduler,
		log:        log,
	}
}

// Start runs the HTTP server, the knowledge base watcher and the retention
// job until ctx is cancelled or one of them fails.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	eg.Go(func() error {
		return a.knowledge.Watch(ctx)
	})
	eg.Go(func() error {
		return a.retention.Run(ctx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	boot := logger.GetLogger()
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log, err := logger.New(cfg)
	if err != nil {
		boot.Fatal().Err(err).Msg("initialize logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetryProvider, err := observability.Init(ctx, observabilityConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := newGormDB(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer redisCache.Close()
	}

	storageBackend, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	validator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	knowledge, err := knowledgebase.NewStore(cfg.ChatbotKnowledgeBasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load chatbot knowledge base")
	}

	txDB := transaction.NewDatabase(db)
	sanitizer := telemetry.NewSanitizer(telemetry.ParseLevel(cfg.LogPIILevel), cfg.ServiceName)

	contentService := content.NewService(contentrepo.NewContentGormRepository(txDB), log)
	chatService := chat.NewService(chatrepo.NewChatGormRepository(txDB), knowledge, sanitizer, cfg.ChatMaxMessageLength, log)
	adminService := admin.NewService(adminrepo.NewAdminGormRepository(txDB), authprovider.NewSender(cfg, log), sanitizer, log)

	if err := adminService.Bootstrap(ctx, cfg.BootstrapAdmins); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin allow-list")
	}

	services := handlers.Services{
		Site:    site.NewService(contentService, chatService, cfg.SiteGalleryLimit, log),
		Content: contentService,
		Importer: bulkupload.NewImporter(contentService, bulkupload.Options{
			MaxBytes: cfg.ImportMaxBytes,
			MaxRows:  cfg.ImportMaxRows,
		}, log),
		Media:   media.NewService(storageBackend, cfg.MaxMediaBytes, log),
		Chat:    chatService,
		Inquiry: inquiry.NewService(inquiryrepo.NewInquiryGormRepository(txDB), sanitizer, log),
		Admin:   adminService,
	}
	provider := handlers.NewProvider(cfg, services, audit.NewLogger(txDB, log), log)

	limiter, err := newLimiter(cfg, redisCache)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize rate limiter")
	}

	opts := httpserver.Options{
		AdminAuth: middlewares.AdminAuthMiddleware(validator, adminService, log),
		Throttle:  middlewares.RateLimitMiddleware(limiter, "public", log),
		Checks: map[string]httpserver.ReadinessCheck{
			"database": func(context.Context) error { return database.Ping(db) },
			"storage":  storageBackend.Health,
		},
		Static:    web.Dist(),
		Telemetry: telemetryProvider,
	}
	if redisCache != nil {
		opts.Checks["redis"] = redisCache.HealthCheck
	}
	if local, ok := storageBackend.(*storage.LocalStorage); ok {
		opts.MediaRoot = local.Root()
	}
	httpServer := httpserver.New(cfg, log, provider, opts)

	jobs, err := worker.NewJobInstrumenter(telemetryProvider.Tracer, telemetryProvider.Meter, cfg.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize job instrumentation")
	}
	var locker retention.Locker
	if redisCache != nil {
		locker = redisCache
	}
	scheduler := retention.NewScheduler(cfg.ChatRetentionCron, cfg.ChatRetention(), chatService, locker, jobs, log)

	app := NewApplication(httpServer, knowledge, scheduler, log)
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:      cfg.DBDriver,
		WriteDSN:    cfg.GetDatabaseWriteDSN(),
		ReadDSN:     cfg.GetDatabaseReadDSN(),
		SQLitePath:  cfg.DBSQLitePath,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, cfg.Driver, log); err != nil {
		return nil, err
	}
	return db, nil
}

// newLimiter shares counters through Redis when it is configured.
func newLimiter(cfg *config.Config, redisCache *cache.RedisCache) (ratelimit.Limiter, error) {
	if cfg.PublicRateLimitPerMinute <= 0 {
		return nil, nil
	}
	if redisCache != nil {
		return ratelimit.NewRedisLimiter(redisCache.Client(), cfg.ServiceName+":ratelimit", cfg.PublicRateLimitPerMinute), nil
	}
	return ratelimit.NewMemoryLimiter(cfg.PublicRateLimitPerMinute, cfg.RateLimitCacheSize)
}

func observabilityConfig(cfg *config.Config) observability.Config {
	obs := observability.DefaultConfig(cfg.ServiceName)
	obs.Environment = cfg.Environment
	obs.TracingEnabled = cfg.EnableTracing
	obs.MetricsEnabled = cfg.EnableOTLPMeter
	obs.OTLPEndpoint = cfg.OTLPEndpoint
	return obs
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				boot := logger.GetLogger()
				boot.Warn().Err(err).Str("path", path).Msg("failed to load env file")
			}
		}
	}
}
