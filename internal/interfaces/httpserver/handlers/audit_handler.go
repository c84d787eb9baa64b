package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/requests"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
)

// AuditHandler lists recorded admin actions.
type AuditHandler struct {
	audit *audit.Logger
}

func NewAuditHandler(auditLogger *audit.Logger) *AuditHandler {
	return &AuditHandler{audit: auditLogger}
}

// List godoc
// @Summary      List admin audit log
// @Tags         admin-audit
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200  {object}  responses.ListResponse[audit.Record]
// @Security     BearerAuth
// @Router       /v1/admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}
	records, total, err := h.audit.List(c.Request.Context(), pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list audit log")
		return
	}
	c.JSON(http.StatusOK, listOf(records, total, pagination))
}
