package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers  *handlers.Provider
	adminAuth gin.HandlerFunc
	throttle  gin.HandlerFunc
}

// NewRoutes builds the v1 routes. adminAuth guards /v1/admin and throttle
// guards the public write endpoints.
func NewRoutes(provider *handlers.Provider, adminAuth, throttle gin.HandlerFunc) *Routes {
	return &Routes{handlers: provider, adminAuth: adminAuth, throttle: throttle}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	h := r.handlers
	group := router.Group("/v1")

	group.GET("/site/home", h.Site.Home)
	group.GET("/content", h.Content.ListPublic)
	group.GET("/content/:id", h.Content.GetPublic)
	group.GET("/chat/greeting", h.Chat.Greeting)
	group.POST("/chat/messages", r.throttle, h.Chat.Send)
	group.POST("/inquiries", r.throttle, h.Inquiry.Submit)
	group.POST("/auth/magic-link", r.throttle, h.Auth.RequestMagicLink)

	admin := group.Group("/admin", r.adminAuth)
	admin.GET("/me", h.Auth.Me)

	admin.GET("/content", h.Content.List)
	admin.POST("/content", h.Content.Create)
	admin.POST("/content/import", h.Import.Import)
	admin.GET("/content/import/template", h.Import.Template)
	admin.GET("/content/:id", h.Content.Get)
	admin.PATCH("/content/:id", h.Content.Update)
	admin.DELETE("/content/:id", h.Content.Delete)

	admin.POST("/media", h.Media.Upload)

	admin.GET("/inquiries", h.Inquiry.List)
	admin.GET("/inquiries/:id", h.Inquiry.Get)
	admin.PATCH("/inquiries/:id", h.Inquiry.Update)
	admin.DELETE("/inquiries/:id", h.Inquiry.Delete)

	admin.GET("/chat/sessions", h.Chat.ListSessions)
	admin.GET("/chat/sessions/:id", h.Chat.GetTranscript)

	admin.GET("/admins", h.AdminUser.List)
	admin.POST("/admins", h.AdminUser.Add)
	admin.DELETE("/admins/:email", h.AdminUser.Remove)

	admin.GET("/audit", h.Audit.List)
}
