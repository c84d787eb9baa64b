package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/requests"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// AdminUserHandler manages the admin allow-list.
type AdminUserHandler struct {
	admins *admin.Service
	audit  *audit.Logger
	log    zerolog.Logger
}

func NewAdminUserHandler(admins *admin.Service, auditLogger *audit.Logger, log zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		admins: admins,
		audit:  auditLogger,
		log:    log.With().Str("component", "admin-user-handler").Logger(),
	}
}

// AddAdminRequest adds or reactivates an allow-list entry.
type AddAdminRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
}

// List godoc
// @Summary      List admins
// @Tags         admin-users
// @Produce      json
// @Param        active  query     bool  false  "Only active admins (default true)"
// @Param        limit   query     int   false  "Page size"
// @Param        offset  query     int   false  "Offset"
// @Success      200  {object}  responses.ListResponse[admin.User]
// @Security     BearerAuth
// @Router       /v1/admin/admins [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	active, err := requests.GetBoolQuery(c, "active")
	if err != nil {
		responses.HandleError(c, err, "invalid active filter")
		return
	}
	activeOnly := active == nil || *active

	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}

	users, err := h.admins.ListAdmins(c.Request.Context(), activeOnly, pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list admins")
		return
	}
	c.JSON(http.StatusOK, listOf(users, int64(len(users)), pagination))
}

// Add godoc
// @Summary      Add an admin
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        request  body      AddAdminRequest  true  "Admin to add"
// @Success      201      {object}  admin.User
// @Failure      400      {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/admins [post]
func (h *AdminUserHandler) Add(c *gin.Context) {
	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "email is required", "a63f0d19-2c84-4e57-9b0a-7d5e1f8c3b42")
		return
	}

	user, err := h.admins.AddAdmin(c.Request.Context(), req.Email, req.DisplayName, middlewares.ActorFromContext(c))
	logAdminAction(c, h.audit, "admin", "admin.add", admin.NormalizeEmail(req.Email), req, http.StatusCreated, err)
	if err != nil {
		responses.HandleError(c, err, "failed to add admin")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Remove godoc
// @Summary      Remove an admin
// @Description  Deactivates the entry. The last active admin cannot be removed.
// @Tags         admin-users
// @Produce      json
// @Param        email  path      string  true  "Admin e-mail"
// @Success      200    {object}  admin.User
// @Failure      404    {object}  responses.ErrorResponse
// @Failure      409    {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/admins/{email} [delete]
func (h *AdminUserHandler) Remove(c *gin.Context) {
	email := admin.NormalizeEmail(c.Param("email"))
	user, err := h.admins.RemoveAdmin(c.Request.Context(), email, middlewares.ActorFromContext(c))
	logAdminAction(c, h.audit, "admin", "admin.remove", email, nil, http.StatusOK, err)
	if err != nil {
		responses.HandleError(c, err, "failed to remove admin")
		return
	}
	c.JSON(http.StatusOK, user)
}
