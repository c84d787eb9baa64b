package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

const maxNotesLength = 4000

// Service handles contact form submissions and their follow-up.
type Service struct {
	repo      Repository
	validate  *validator.Validate
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new inquiry service.
func NewService(repo Repository, sanitizer *telemetry.Sanitizer, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: sanitizer,
		log:       log.With().Str("component", "inquiry-service").Logger(),
		now:       time.Now,
	}
}

// Submit validates and stores a new inquiry with status new.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Inquiry, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.ServiceInterest = strings.TrimSpace(input.ServiceInterest)
	input.Message = strings.TrimSpace(input.Message)

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			describeValidation(err), err, "6c3a9e15-8b72-4d0f-a1e4-2f7b5c8d9e03")
	}

	now := s.now().UTC()
	inquiry := &Inquiry{
		ID:              idgen.NewID(),
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		ServiceInterest: input.ServiceInterest,
		Message:         input.Message,
		Status:          StatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create inquiry")
	}

	s.log.Info().
		Str("inquiry_id", inquiry.ID).
		Str("email", s.sanitizer.Email(inquiry.Email)).
		Str("phone", s.sanitizer.Phone(inquiry.Phone)).
		Str("service_interest", inquiry.ServiceInterest).
		Msg("inquiry received")
	return inquiry, nil
}

// List returns inquiries, newest first, with the total count.
func (s *Service) List(ctx context.Context, filter Filter, p *query.Pagination) ([]*Inquiry, int64, error) {
	items, err := s.repo.FindByFilter(ctx, filter, p)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list inquiries")
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count inquiries")
	}
	return items, total, nil
}

// Get returns one inquiry.
func (s *Service) Get(ctx context.Context, id string) (*Inquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "inquiry id is required", nil, "f02b7d48-5a1c-4e93-b6d7-0c8e2a4f1b59")
	}
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "get inquiry")
	}
	return inquiry, nil
}

// UpdateStatus moves an inquiry to status and optionally replaces its notes.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string, notes *string, actor string) (*Inquiry, error) {
	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("invalid status %q (allowed: new, contacted, booked, closed, spam)", strings.TrimSpace(status)), nil, "1d8e4b26-9c3f-4a70-85e1-7b2d6f0a3c94")
	}
	if notes != nil && len([]rune(*notes)) > maxNotesLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("admin_notes must be at most %d characters", maxNotesLength), nil, "c57a0e93-2b6d-4f18-9e4c-3a1f8d7b6e20")
	}

	inquiry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := inquiry.Status
	inquiry.Status = parsed
	if notes != nil {
		inquiry.AdminNotes = strings.TrimSpace(*notes)
	}
	inquiry.HandledBy = actor
	inquiry.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update inquiry")
	}

	s.log.Info().
		Str("inquiry_id", inquiry.ID).
		Str("from", string(previous)).
		Str("to", string(parsed)).
		Str("actor", actor).
		Msg("inquiry status changed")
	return inquiry, nil
}

// Delete removes an inquiry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete inquiry")
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid inquiry"
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "email":
			problems = append(problems, field+" must be a valid e-mail address")
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	return strings.Join(problems, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
