package admin

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

// Service manages the admin allow-list and magic-link sign in.
type Service struct {
	repo      Repository
	sender    MagicLinkSender
	validate  *validator.Validate
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new admin service. sender may be nil when no auth
// provider is configured; magic-link requests then fail with an external error.
func NewService(repo Repository, sender MagicLinkSender, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		sender:    sender,
		validate:  validator.New(),
		sanitizer: sanitizer,
		log:       log.With().Str("component", "admin-service").Logger(),
		now:       time.Now,
	}
}

// NormalizeEmail lower-cases and trims an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) checkEmail(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "a valid e-mail address is required", err, "b4e07c29-1a5d-4f86-9c3b-8d2e6f0a7b15")
	}
	return email, nil
}

// IsAllowed reports whether email belongs to an active admin.
func (s *Service) IsAllowed(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return false, nil
		}
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "check admin allow-list")
	}
	return user.IsActive, nil
}

// Get returns the allow-list entry for email.
func (s *Service) Get(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "get admin")
	}
	return user, nil
}

// RequestMagicLink sends a sign-in link when email is an active admin. Unknown
// addresses are silently ignored so callers cannot probe the allow-list.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	email, err := s.checkEmail(ctx, email)
	if err != nil {
		return err
	}

	allowed, err := s.IsAllowed(ctx, email)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info().Str("email", s.sanitizer.Email(email)).Msg("magic link requested for address outside the allow-list")
		return nil
	}

	if s.sender == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "auth provider is not configured", nil, "3a9f1e60-7c24-4b8d-a5e2-9f0c1d6b8e47")
	}
	if err := s.sender.SendMagicLink(ctx, email); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "send magic link")
	}

	s.log.Info().Str("email", s.sanitizer.Email(email)).Msg("magic link sent")
	return nil
}

// RecordLogin stamps the last login time; failures are only logged.
func (s *Service) RecordLogin(ctx context.Context, email string) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return
	}
	now := s.now().UTC()
	if user.LastLoginAt != nil && now.Sub(*user.LastLoginAt) < time.Hour {
		return
	}
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Warn().Err(err).Msg("failed to record admin login")
	}
}

// ListAdmins returns allow-list entries.
func (s *Service) ListAdmins(ctx context.Context, activeOnly bool, p *query.Pagination) ([]*User, error) {
	users, err := s.repo.List(ctx, activeOnly, p)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list admins")
	}
	return users, nil
}

// AddAdmin adds email to the allow-list or reactivates it.
func (s *Service) AddAdmin(ctx context.Context, email, displayName, actor string) (*User, error) {
	email, err := s.checkEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	now := s.now().UTC()

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.IsActive = true
		if displayName != "" {
			existing.DisplayName = displayName
		}
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "reactivate admin")
		}
		return existing, nil
	case !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound):
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "find admin")
	}

	user := &User{
		ID:          idgen.NewID(),
		Email:       email,
		DisplayName: displayName,
		IsActive:    true,
		AddedBy:     actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "add admin")
	}
	s.log.Info().Str("email", s.sanitizer.Email(email)).Str("actor", actor).Msg("admin added")
	return user, nil
}

// RemoveAdmin deactivates email. The last active admin cannot be removed.
func (s *Service) RemoveAdmin(ctx context.Context, email, actor string) (*User, error) {
	user, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return user, nil
	}

	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count admins")
	}
	if active <= 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "cannot remove the last active admin", nil, "e8c2a5d1-4f70-4b39-9d16-2a7e0b3f5c88")
	}

	user.IsActive = false
	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "remove admin")
	}
	s.log.Info().Str("email", s.sanitizer.Email(user.Email)).Str("actor", actor).Msg("admin deactivated")
	return user, nil
}

// Bootstrap makes sure every address in emails is an active admin.
func (s *Service) Bootstrap(ctx context.Context, emails []string) error {
	for _, email := range emails {
		allowed, err := s.IsAllowed(ctx, email)
		if err != nil {
			return err
		}
		if allowed {
			continue
		}
		if _, err := s.AddAdmin(ctx, email, "", "bootstrap"); err != nil {
			return err
		}
	}
	return nil
}
