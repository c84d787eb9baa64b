package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/bulkupload"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ImportHandler exposes the CSV bulk importer.
type ImportHandler struct {
	importer *bulkupload.Importer
	audit    *audit.Logger
	log      zerolog.Logger
}

func NewImportHandler(importer *bulkupload.Importer, auditLogger *audit.Logger, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		audit:    auditLogger,
		log:      log.With().Str("component", "import-handler").Logger(),
	}
}

type importAuditPayload struct {
	Filename string `json:"filename,omitempty"`
	Total    int    `json:"total"`
	Inserted int    `json:"inserted"`
	Failed   int    `json:"failed"`
}

// Import godoc
// @Summary      Bulk import content from CSV
// @Description  Accepts a multipart "file" field or a raw text/csv body. Rows are validated and inserted one at a time; failures are reported per row and never abort the batch.
// @Tags         admin-content
// @Accept       multipart/form-data
// @Accept       text/csv
// @Produce      json
// @Param        file  formData  file  false  "CSV file"
// @Success      200   {object}  bulkupload.Result
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      413   {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	limitBody(c, h.importer.MaxBytes())
	body, filename, err := csvBody(c, h.importer.MaxBytes())
	if err != nil {
		responses.HandleError(c, err, "invalid import upload")
		return
	}
	defer body.Close()

	result, err := h.importer.Import(c.Request.Context(), body, middlewares.ActorFromContext(c))
	payload := importAuditPayload{Filename: filename}
	if result != nil {
		payload.Total = result.Total
		payload.Inserted = result.Inserted
		payload.Failed = len(result.Errors)
		metrics.RecordImport(result.Inserted, len(result.Errors))
	}
	logAdminAction(c, h.audit, "content", "content.import", "", payload, http.StatusOK, err)
	if err != nil {
		responses.HandleError(c, err, "failed to import content")
		return
	}

	h.log.Info().
		Str("actor", middlewares.ActorFromContext(c)).
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("failed", len(result.Errors)).
		Msg("content import finished")
	c.JSON(http.StatusOK, result)
}

// Template godoc
// @Summary      Download the CSV import template
// @Tags         admin-content
// @Produce      text/csv
// @Success      200  {string}  string  "CSV template"
// @Security     BearerAuth
// @Router       /v1/admin/content/import/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="content-import-template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", bulkupload.Template())
}

// csvBody returns the uploaded CSV from a multipart "file" field or the raw
// request body.
func csvBody(c *gin.Context, maxBytes int64) (io.ReadCloser, string, error) {
	ctx := c.Request.Context()
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/") {
		header, err := formFile(c, "file", maxBytes)
		if err != nil {
			return nil, "", err
		}
		file, err := header.Open()
		if err != nil {
			return nil, "", platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "cannot read uploaded file", err, "91f3d6a8-2c47-4e05-8b1a-d5e9c0f7b263")
		}
		return file, header.Filename, nil
	}

	switch contentType {
	case "text/csv", "application/csv", "text/plain", "application/octet-stream":
		return c.Request.Body, "", nil
	}
	return nil, "", platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "upload a CSV as multipart \"file\" or a text/csv body", nil, "b8c25e07-6d31-4f9a-a4e8-0f2d7b1c9e36")
}
