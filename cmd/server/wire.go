//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/bulkupload"
	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/chatbot"
	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/domain/media"
	"github.com/maisonbelle/salon-site/internal/domain/site"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/auth"
	"github.com/maisonbelle/salon-site/internal/infrastructure/authprovider"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository"
	"github.com/maisonbelle/salon-site/internal/infrastructure/knowledgebase"
	"github.com/maisonbelle/salon-site/internal/infrastructure/logger"
	"github.com/maisonbelle/salon-site/internal/infrastructure/retention"
	"github.com/maisonbelle/salon-site/internal/infrastructure/storage"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/handlers"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
	"github.com/maisonbelle/salon-site/web"
)

var domainSet = wire.NewSet(
	content.NewService,
	chat.NewService,
	admin.NewService,
	inquiry.NewService,
	provideMediaService,
	provideImporter,
	provideSite,
	wire.Bind(new(chatbot.Responder), new(*knowledgebase.Store)),
	wire.Bind(new(media.Storage), new(storage.Backend)),
)

// BuildApplication assembles the site API with Wire. Redis and OTLP export are
// left out of the generated graph; main wires them when configured.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		authprovider.NewSender,
		newDatabaseConfig,
		newGormDB,
		repository.RepositoryProvider,
		storage.New,
		provideKnowledgeBase,
		provideSanitizer,
		provideMaxChatLength,
		domainSet,
		audit.NewLogger,
		handlers.HandlerProvider,
		provideServerOptions,
		httpserver.New,
		provideScheduler,
		NewApplication,
	)
	return nil, nil
}

func provideKnowledgeBase(cfg *config.Config, log zerolog.Logger) (*knowledgebase.Store, error) {
	return knowledgebase.NewStore(cfg.ChatbotKnowledgeBasePath, log)
}

func provideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.ParseLevel(cfg.LogPIILevel), cfg.ServiceName)
}

func provideMaxChatLength(cfg *config.Config) int {
	return cfg.ChatMaxMessageLength
}

func provideMediaService(cfg *config.Config, backend storage.Backend, log zerolog.Logger) *media.Service {
	return media.NewService(backend, cfg.MaxMediaBytes, log)
}

func provideImporter(cfg *config.Config, contentService *content.Service, log zerolog.Logger) *bulkupload.Importer {
	return bulkupload.NewImporter(contentService, bulkupload.Options{MaxBytes: cfg.ImportMaxBytes, MaxRows: cfg.ImportMaxRows}, log)
}

func provideSite(cfg *config.Config, contentService *content.Service, chatService *chat.Service, log zerolog.Logger) *site.Service {
	return site.NewService(contentService, chatService, cfg.SiteGalleryLimit, log)
}

func provideServerOptions(cfg *config.Config, db *gorm.DB, backend storage.Backend, validator *auth.Validator, admins *admin.Service, log zerolog.Logger) (httpserver.Options, error) {
	limiter, err := newLimiter(cfg, nil)
	if err != nil {
		return httpserver.Options{}, err
	}
	opts := httpserver.Options{
		AdminAuth: middlewares.AdminAuthMiddleware(validator, admins, log),
		Throttle:  middlewares.RateLimitMiddleware(limiter, "public", log),
		Checks: map[string]httpserver.ReadinessCheck{
			"storage": backend.Health,
		},
		Static: web.Dist(),
	}
	if local, ok := backend.(*storage.LocalStorage); ok {
		opts.MediaRoot = local.Root()
	}
	return opts, nil
}

func provideScheduler(cfg *config.Config, chatService *chat.Service, log zerolog.Logger) *retention.Scheduler {
	return retention.NewScheduler(cfg.ChatRetentionCron, cfg.ChatRetention(), chatService, nil, nil, log)
}
