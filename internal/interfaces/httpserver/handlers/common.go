package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

func listOf[T any](items []T, total int64, p *query.Pagination) responses.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	resp := responses.ListResponse[T]{Data: items, Total: total}
	if p != nil {
		resp.Limit = p.Limit
		resp.Offset = p.Offset
	}
	return resp
}

// logAdminAction records an admin mutation with the status the caller will
// see.
func logAdminAction(c *gin.Context, logger *audit.Logger, resource, action, id string, payload any, okStatus int, err error) {
	status := okStatus
	if err != nil {
		status = http.StatusInternalServerError
		var pe *platformerrors.PlatformError
		if errors.As(err, &pe) {
			status = platformerrors.ErrorTypeToHTTPStatus(pe.Type)
		}
	}
	logger.Log(c.Request.Context(), audit.Entry{
		AdminEmail: middlewares.ActorFromContext(c),
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		Payload:    payload,
		StatusCode: status,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Error:      err,
	})
}

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 64 << 10

// limitBody caps the request body so oversized uploads fail while being read
// instead of after gin has buffered them.
func limitBody(c *gin.Context, maxBytes int64) {
	if maxBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	}
}

// formFile reads the named multipart file, reporting a body over the cap as
// 413 rather than a missing field.
func formFile(c *gin.Context, field string, maxBytes int64) (*multipart.FileHeader, error) {
	ctx := c.Request.Context()
	header, err := c.FormFile(field)
	if err == nil {
		return header, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypePayloadTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", maxBytes), err, "5d8e2a17-c94b-4f30-a6e1-0b7f3c9d2e84")
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
		fmt.Sprintf("multipart field %q is required", field), err, "4e0b7c92-5f13-4a86-b2d9-7c1e3a8f6d50")
}
