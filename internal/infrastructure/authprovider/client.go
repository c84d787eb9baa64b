// Package authprovider talks to the hosted auth provider's GoTrue-style API.
package authprovider

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

type otpRequest struct {
	Email      string `json:"email"`
	CreateUser bool   `json:"create_user"`
}

type providerError struct {
	Message string `json:"msg"`
	Error   string `json:"error_description"`
}

// Client sends magic links through the provider's OTP endpoint.
type Client struct {
	httpClient  *resty.Client
	redirectURL string
	log         zerolog.Logger
}

var _ admin.MagicLinkSender = (*Client)(nil)

// NewClient returns nil when AUTH_PROVIDER_URL is unset.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.AuthProviderURL), "/")
	if baseURL == "" {
		return nil
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", cfg.ServiceName+"/1.0").
		SetHeader("apikey", cfg.AuthProviderKey).
		SetAuthToken(cfg.AuthProviderKey).
		SetTimeout(cfg.AuthProviderWait)

	return &Client{
		httpClient:  httpClient,
		redirectURL: strings.TrimSpace(cfg.AuthRedirectURL),
		log:         log.With().Str("component", "auth-provider").Logger(),
	}
}

// NewSender adapts NewClient for admin.NewService, which treats a nil sender
// as "provider not configured".
func NewSender(cfg *config.Config, log zerolog.Logger) admin.MagicLinkSender {
	if client := NewClient(cfg, log); client != nil {
		return client
	}
	return nil
}

// SendMagicLink asks the provider to e-mail a sign-in link to an existing user.
func (c *Client) SendMagicLink(ctx context.Context, email string) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(otpRequest{Email: email, CreateUser: true}).
		SetError(&providerError{})
	if c.redirectURL != "" {
		req = req.SetQueryParam("redirect_to", c.redirectURL)
	}

	resp, err := req.Post("/auth/v1/otp")
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "auth provider request failed", err, "9d3f6b2a-0e71-4c85-b4a9-e2c7d1f5a038")
	}
	if resp.IsError() {
		message := resp.String()
		if perr, ok := resp.Error().(*providerError); ok && perr != nil {
			if perr.Message != "" {
				message = perr.Message
			} else if perr.Error != "" {
				message = perr.Error
			}
		}
		c.log.Warn().Int("status", resp.StatusCode()).Str("message", message).Msg("auth provider rejected magic link request")
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "auth provider rejected the magic link request", nil, "c5a0e8d3-7b14-4f69-92e6-0d4b8a1c3f57")
	}
	return nil
}
