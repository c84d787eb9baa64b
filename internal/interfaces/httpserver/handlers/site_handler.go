package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/site"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
)

// SiteHandler serves the landing page payload.
type SiteHandler struct {
	service *site.Service
	log     zerolog.Logger
}

func NewSiteHandler(service *site.Service, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		service: service,
		log:     log.With().Str("component", "site-handler").Logger(),
	}
}

// Home godoc
// @Summary      Landing page content
// @Description  Returns active content grouped by page section plus the chatbot greeting.
// @Tags         site
// @Produce      json
// @Success      200  {object}  site.Home
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/site/home [get]
func (h *SiteHandler) Home(c *gin.Context) {
	home, err := h.service.Home(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to load landing page")
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, home)
}
