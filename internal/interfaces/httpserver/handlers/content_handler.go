package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/requests"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ContentHandler exposes public and admin content endpoints.
type ContentHandler struct {
	service *content.Service
	audit   *audit.Logger
	log     zerolog.Logger
}

func NewContentHandler(service *content.Service, auditLogger *audit.Logger, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		audit:   auditLogger,
		log:     log.With().Str("component", "content-handler").Logger(),
	}
}

// ListPublic godoc
// @Summary      List active content
// @Tags         content
// @Produce      json
// @Param        category    query     string  false  "Category filter"
// @Param        media_type  query     string  false  "image or video"
// @Param        placement   query     string  false  "Page section"
// @Param        featured    query     bool    false  "Only featured items"
// @Param        limit       query     int     false  "Page size"
// @Param        offset      query     int     false  "Offset"
// @Success      200  {object}  responses.ListResponse[content.Item]
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/content [get]
func (h *ContentHandler) ListPublic(c *gin.Context) {
	filter, ok := h.parseFilter(c, false)
	if !ok {
		return
	}
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}

	items, total, err := h.service.ListPublic(c.Request.Context(), filter, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list content")
		return
	}
	c.JSON(http.StatusOK, listOf(items, total, pagination))
}

// GetPublic godoc
// @Summary      Get an active content item
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  content.Item
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/content/{id} [get]
func (h *ContentHandler) GetPublic(c *gin.Context) {
	item, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get content")
		return
	}
	c.JSON(http.StatusOK, item)
}

// List godoc
// @Summary      List all content
// @Description  Admin listing including inactive items.
// @Tags         admin-content
// @Produce      json
// @Param        category    query     string  false  "Category filter"
// @Param        media_type  query     string  false  "image or video"
// @Param        placement   query     string  false  "Page section"
// @Param        featured    query     bool    false  "Featured filter"
// @Param        active      query     bool    false  "Active filter"
// @Param        limit       query     int     false  "Page size"
// @Param        offset      query     int     false  "Offset"
// @Success      200  {object}  responses.ListResponse[content.Item]
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content [get]
func (h *ContentHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c, true)
	if !ok {
		return
	}
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list content")
		return
	}
	c.JSON(http.StatusOK, listOf(items, total, pagination))
}

// Get godoc
// @Summary      Get a content item
// @Tags         admin-content
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  content.Item
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get content")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary      Create a content item
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        request  body      content.CreateInput  true  "Content item"
// @Success      201      {object}  content.Item
// @Failure      400      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var input content.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "d8a3f15c-7e20-4b96-a1c4-5f9e2b7d0c83")
		return
	}

	item, err := h.service.Create(c.Request.Context(), input, middlewares.ActorFromContext(c))
	h.logAudit(c, "content.create", resourceID(item), input, http.StatusCreated, err)
	if err != nil {
		responses.HandleError(c, err, "failed to create content")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary      Update a content item
// @Description  Partial update; omitted fields are left unchanged.
// @Tags         admin-content
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Content ID"
// @Param        request  body      content.UpdateInput  true  "Fields to change"
// @Success      200      {object}  content.Item
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content/{id} [patch]
func (h *ContentHandler) Update(c *gin.Context) {
	var input content.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error(), "2b6e9d41-0c7f-4a58-9e13-c4f8a0d6b2e7")
		return
	}

	id := c.Param("id")
	item, err := h.service.Update(c.Request.Context(), id, input, middlewares.ActorFromContext(c))
	h.logAudit(c, "content.update", id, input, http.StatusOK, err)
	if err != nil {
		responses.HandleError(c, err, "failed to update content")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete a content item
// @Tags         admin-content
// @Param        id   path  string  true  "Content ID"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := h.service.Delete(c.Request.Context(), id)
	h.logAudit(c, "content.delete", id, nil, http.StatusNoContent, err)
	if err != nil {
		responses.HandleError(c, err, "failed to delete content")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) parseFilter(c *gin.Context, admin bool) (content.Filter, bool) {
	var filter content.Filter

	if raw := c.Query("category"); raw != "" {
		category, ok := content.ParseCategory(raw)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown category "+raw, "6f1c8a30-4e9d-4b27-b5a2-8d0e3f7c1a94")
			return filter, false
		}
		filter.Category = &category
	}
	if raw := c.Query("media_type"); raw != "" {
		mediaType, ok := content.ParseMediaType(raw)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown media_type "+raw, "a0d47e92-3b5c-4f18-8c6e-1e9b2f4d7a05")
			return filter, false
		}
		filter.MediaType = &mediaType
	}
	if raw := c.Query("placement"); raw != "" {
		placement, ok := content.ParsePlacement(raw)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unknown placement "+raw, "c57e2b18-9a04-4d63-b7f1-3d8c6e0a2f49")
			return filter, false
		}
		filter.Placement = &placement
	}

	featured, err := requests.GetBoolQuery(c, "featured")
	if err != nil {
		responses.HandleError(c, err, "invalid featured filter")
		return filter, false
	}
	filter.Featured = featured

	if admin {
		active, err := requests.GetBoolQuery(c, "active")
		if err != nil {
			responses.HandleError(c, err, "invalid active filter")
			return filter, false
		}
		filter.Active = active
	}
	return filter, true
}

func (h *ContentHandler) logAudit(c *gin.Context, action, id string, payload any, okStatus int, err error) {
	logAdminAction(c, h.audit, "content", action, id, payload, okStatus, err)
}

func resourceID(item *content.Item) string {
	if item == nil {
		return ""
	}
	return item.ID
}
