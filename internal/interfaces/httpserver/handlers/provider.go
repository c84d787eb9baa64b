package handlers

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/bulkupload"
	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/domain/media"
	"github.com/maisonbelle/salon-site/internal/domain/site"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
)

// Provider wires HTTP handlers.
type Provider struct {
	Site      *SiteHandler
	Content   *ContentHandler
	Import    *ImportHandler
	Media     *MediaHandler
	Chat      *ChatHandler
	Inquiry   *InquiryHandler
	Auth      *AuthHandler
	AdminUser *AdminUserHandler
	Audit     *AuditHandler
}

// Services groups the domain services the handlers call.
type Services struct {
	Site     *site.Service
	Content  *content.Service
	Importer *bulkupload.Importer
	Media    *media.Service
	Chat     *chat.Service
	Inquiry  *inquiry.Service
	Admin    *admin.Service
}

func NewProvider(cfg *config.Config, services Services, auditLogger *audit.Logger, log zerolog.Logger) *Provider {
	return &Provider{
		Site:      NewSiteHandler(services.Site, log),
		Content:   NewContentHandler(services.Content, auditLogger, log),
		Import:    NewImportHandler(services.Importer, auditLogger, log),
		Media:     NewMediaHandler(services.Media, auditLogger, cfg.MediaUploadTimeout, log),
		Chat:      NewChatHandler(services.Chat, log),
		Inquiry:   NewInquiryHandler(services.Inquiry, auditLogger, log),
		Auth:      NewAuthHandler(services.Admin, log),
		AdminUser: NewAdminUserHandler(services.Admin, auditLogger, log),
		Audit:     NewAuditHandler(auditLogger),
	}
}

// HandlerProvider is the wire set for the HTTP handlers.
var HandlerProvider = wire.NewSet(
	wire.Struct(new(Services), "*"),
	NewProvider,
)
