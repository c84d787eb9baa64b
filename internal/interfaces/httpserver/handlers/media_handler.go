package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/media"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// MediaHandler accepts admin uploads of images and videos.
type MediaHandler struct {
	service *media.Service
	audit   *audit.Logger
	timeout time.Duration
	log     zerolog.Logger
}

func NewMediaHandler(service *media.Service, auditLogger *audit.Logger, timeout time.Duration, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		audit:   auditLogger,
		timeout: timeout,
		log:     log.With().Str("component", "media-handler").Logger(),
	}
}

// Upload godoc
// @Summary      Upload an image or video
// @Description  Stores the file and returns the public URL to use in a content item.
// @Tags         admin-media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image or video"
// @Success      201   {object}  media.Asset
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      413   {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	limitBody(c, h.service.MaxBytes())
	header, err := formFile(c, "file", h.service.MaxBytes())
	if err != nil {
		responses.HandleError(c, err, "invalid media upload")
		return
	}
	file, err := header.Open()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "cannot read uploaded file", "e52d8b17-4a0c-4f63-9d7e-6b1f3c8a2e09")
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	asset, err := h.service.Upload(ctx, header.Filename, file, middlewares.ActorFromContext(c))
	if err != nil {
		metrics.RecordUpload("unknown", "error", 0)
		logAdminAction(c, h.audit, "media", "media.upload", "", gin.H{"filename": header.Filename}, http.StatusCreated, err)
		responses.HandleError(c, err, "failed to upload media")
		return
	}

	metrics.RecordUpload(string(asset.MediaType), "ok", asset.Bytes)
	logAdminAction(c, h.audit, "media", "media.upload", asset.Key, asset, http.StatusCreated, nil)
	c.JSON(http.StatusCreated, asset)
}
