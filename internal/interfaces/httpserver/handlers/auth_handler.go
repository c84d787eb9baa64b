package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// AuthHandler handles magic-link sign-in and the admin identity endpoint.
type AuthHandler struct {
	admins *admin.Service
	log    zerolog.Logger
}

func NewAuthHandler(admins *admin.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		admins: admins,
		log:    log.With().Str("component", "auth-handler").Logger(),
	}
}

// MagicLinkRequest asks for a sign-in link.
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required"`
}

// MeResponse describes the signed-in admin.
type MeResponse struct {
	Principal domain.Principal `json:"principal"`
	Admin     *admin.User      `json:"admin,omitempty"`
}

// RequestMagicLink godoc
// @Summary      Request an admin sign-in link
// @Description  Always answers 202 for well-formed addresses; a link is only sent to addresses on the admin allow-list.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      MagicLinkRequest  true  "E-mail address"
// @Success      202      {object}  responses.StatusResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      429      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Router       /v1/auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "email is required", "c90e4a27-5b18-4d63-a7f2-3e8d1b6c0f54")
		return
	}

	if err := h.admins.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		responses.HandleError(c, err, "failed to send sign-in link")
		return
	}
	c.JSON(http.StatusAccepted, responses.StatusResponse{
		Status:  "accepted",
		Message: "if the address is registered, a sign-in link is on its way",
	})
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middlewares.PrincipalFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "1f7b3d85-6e20-4c49-b8a1-9d4e0c2f7a63")
		return
	}

	resp := MeResponse{Principal: principal}
	if principal.Email != "" {
		if user, err := h.admins.Get(c.Request.Context(), principal.Email); err == nil {
			resp.Admin = user
		}
	}
	c.JSON(http.StatusOK, resp)
}
