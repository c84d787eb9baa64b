package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/requests"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// InquiryHandler handles the contact form and the admin inbox.
type InquiryHandler struct {
	service *inquiry.Service
	audit   *audit.Logger
	log     zerolog.Logger
}

func NewInquiryHandler(service *inquiry.Service, auditLogger *audit.Logger, log zerolog.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		audit:   auditLogger,
		log:     log.With().Str("component", "inquiry-handler").Logger(),
	}
}

// UpdateInquiryRequest changes the status and optionally the notes of an inquiry.
type UpdateInquiryRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes"`
}

// SubmitInquiryResponse acknowledges a contact form submission.
type SubmitInquiryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Submit godoc
// @Summary      Submit the contact form
// @Tags         inquiries
// @Accept       json
// @Produce      json
// @Param        request  body      inquiry.SubmitInput  true  "Contact details"
// @Success      201      {object}  SubmitInquiryResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      429      {object}  responses.ErrorResponse
// @Router       /v1/inquiries [post]
func (h *InquiryHandler) Submit(c *gin.Context) {
	var input inquiry.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "5a8e1c73-0b2d-4f96-8e4a-d7c3f9b1e062")
		return
	}

	item, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		responses.HandleError(c, err, "failed to submit inquiry")
		return
	}

	metrics.InquiriesTotal.Inc()
	c.JSON(http.StatusCreated, SubmitInquiryResponse{ID: item.ID, Status: string(item.Status)})
}

// List godoc
// @Summary      List inquiries
// @Tags         admin-inquiries
// @Produce      json
// @Param        status  query     string  false  "new, contacted, booked, closed or spam"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Offset"
// @Success      200  {object}  responses.ListResponse[inquiry.Inquiry]
// @Failure      400  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	var filter inquiry.Filter
	if raw := c.Query("status"); raw != "" {
		status, ok := inquiry.ParseStatus(raw)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown status "+raw, "f3b90d64-7a1e-4c28-95d3-0e6a8b2c4f17")
			return
		}
		filter.Status = &status
	}
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list inquiries")
		return
	}
	c.JSON(http.StatusOK, listOf(items, total, pagination))
}

// Get godoc
// @Summary      Get an inquiry
// @Tags         admin-inquiries
// @Produce      json
// @Param        id   path      string  true  "Inquiry ID"
// @Success      200  {object}  inquiry.Inquiry
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/inquiries/{id} [get]
func (h *InquiryHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get inquiry")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary      Update inquiry status
// @Tags         admin-inquiries
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Inquiry ID"
// @Param        request  body      UpdateInquiryRequest  true  "New status"
// @Success      200      {object}  inquiry.Inquiry
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/inquiries/{id} [patch]
func (h *InquiryHandler) Update(c *gin.Context) {
	var req UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "status is required", "8d2f6b40-3e95-4a17-b0c8-1f7e5d9a3c26")
		return
	}

	id := c.Param("id")
	item, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, req.AdminNotes, middlewares.ActorFromContext(c))
	logAdminAction(c, h.audit, "inquiry", "inquiry.update", id, gin.H{"status": req.Status}, http.StatusOK, err)
	if err != nil {
		responses.HandleError(c, err, "failed to update inquiry")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete an inquiry
// @Tags         admin-inquiries
// @Param        id   path  string  true  "Inquiry ID"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/inquiries/{id} [delete]
func (h *InquiryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := h.service.Delete(c.Request.Context(), id)
	logAdminAction(c, h.audit, "inquiry", "inquiry.delete", id, nil, http.StatusNoContent, err)
	if err != nil {
		responses.HandleError(c, err, "failed to delete inquiry")
		return
	}
	c.Status(http.StatusNoContent)
}
