// Package auth validates session tokens issued by the hosted auth provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingEmail = errors.New("token has no email claim")
)

const clockSkew = 30 * time.Second

// Claims is the subset of provider claims the API reads.
type Claims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Validator checks bearer tokens against the provider's JWKS, or against a
// shared HS256 secret when one is configured.
type Validator struct {
	issuer   string
	audience string
	secret   []byte
	jwks     *keyfunc.JWKS
	log      zerolog.Logger
}

// NewValidator returns nil when authentication is disabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		log.Warn().Msg("AUTH_ENABLED is false; admin routes accept every caller")
		return nil, nil
	}

	v := &Validator{
		issuer:   strings.TrimSpace(cfg.AuthIssuer),
		audience: strings.TrimSpace(cfg.AuthAudience),
		log:      log.With().Str("component", "auth-validator").Logger(),
	}

	if secret := strings.TrimSpace(cfg.AuthJWTSecret); secret != "" {
		v.secret = []byte(secret)
		return v, nil
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   cfg.AuthJWKSRefresh,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh error")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	v.jwks = jwks
	return v, nil
}

// NewHMACValidator builds a validator for HS256 tokens signed with secret.
func NewHMACValidator(issuer, audience string, secret []byte, log zerolog.Logger) *Validator {
	return &Validator{issuer: issuer, audience: audience, secret: secret, log: log}
}

func (v *Validator) keyfunc(token *jwt.Token) (any, error) {
	if v.secret != nil {
		return v.secret, nil
	}
	return v.jwks.Keyfunc(token)
}

func (v *Validator) methods() []string {
	if v.secret != nil {
		return []string{"HS256"}
	}
	return []string{"RS256", "ES256"}
}

// Validate parses rawToken and returns the principal it carries.
func (v *Validator) Validate(_ context.Context, rawToken string) (*domain.Principal, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods()),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, v.keyfunc, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, ErrMissingEmail
	}

	name, _ := claims.UserMetadata["full_name"].(string)
	return &domain.Principal{
		Subject:    claims.Subject,
		Email:      email,
		Name:       name,
		Issuer:     claims.Issuer,
		AuthMethod: domain.AuthMethodJWT,
	}, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
