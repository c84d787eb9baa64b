package middlewares

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain"
	authvalidator "github.com/maisonbelle/salon-site/internal/infrastructure/auth"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

const principalContextKey = "principal"

// AllowList decides which authenticated e-mails are admins.
type AllowList interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
	RecordLogin(ctx context.Context, email string)
}

// localPrincipal is used for every admin request while auth is disabled.
var localPrincipal = domain.Principal{
	Subject:    "local-admin",
	AuthMethod: domain.AuthMethodDisabled,
}

// AdminAuthMiddleware requires a valid provider token whose e-mail is on the
// allow-list. With a nil validator every caller is treated as a local admin.
func AdminAuthMiddleware(validator *authvalidator.Validator, allowList AllowList, logger zerolog.Logger) gin.HandlerFunc {
	if validator == nil {
		return func(c *gin.Context) {
			setPrincipal(c, localPrincipal)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		principal, err := validator.Validate(ctx, authvalidator.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			if !errors.Is(err, authvalidator.ErrMissingToken) {
				logger.Warn().Err(err).Str("path", c.FullPath()).Msg("admin token rejected")
			}
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "3c8e1f5a-9b27-4d40-a6e3-0f7b2d9c5e16")
			return
		}

		allowed, err := allowList.IsAllowed(ctx, principal.Email)
		if err != nil {
			responses.HandleError(c, err, "failed to check admin access")
			return
		}
		if !allowed {
			logger.Warn().Str("subject", principal.Subject).Msg("authenticated user is not on the admin allow-list")
			responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "admin access required", "b1d4a7e0-6c93-4f28-8e5b-2a9f0c3d7e61")
			return
		}

		allowList.RecordLogin(ctx, principal.Email)
		setPrincipal(c, *principal)
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

// ActorFromContext returns the identifier recorded on rows an admin changes.
func ActorFromContext(c *gin.Context) string {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.Actor()
	}
	return ""
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	c.Set("user_email", principal.Email)
}
