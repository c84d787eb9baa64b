package content

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// Service provides business logic for content items.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a new content service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "content-service").Logger(),
		now:  time.Now,
	}
}

// List returns content matching filter together with the total count.
func (s *Service) List(ctx context.Context, filter Filter, p *query.Pagination) ([]*Item, int64, error) {
	items, err := s.repo.FindByFilter(ctx, filter, p)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list content")
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count content")
	}
	return items, total, nil
}

// ListPublic is List restricted to active items.
func (s *Service) ListPublic(ctx context.Context, filter Filter, p *query.Pagination) ([]*Item, int64, error) {
	active := true
	filter.Active = &active
	return s.List(ctx, filter, p)
}

// Get returns one content item regardless of its active flag.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "content id is required", nil, "3f6c2a71-8e0d-4b5f-9a14-c27d0e8b5a31")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "get content")
	}
	return item, nil
}

// GetPublic returns an active content item; inactive items are reported as not found.
func (s *Service) GetPublic(ctx context.Context, id string) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "content item not found", nil, "9b1e4d02-5c7a-4f38-8d61-0a2f3e9c7b14")
	}
	return item, nil
}

// Create validates input and stores a new content item.
func (s *Service) Create(ctx context.Context, input CreateInput, actor string) (*Item, error) {
	normalized, problems := Check(Fields{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		MediaType:    input.MediaType,
		URL:          input.URL,
		ThumbnailURL: input.ThumbnailURL,
		Placement:    input.Placement,
	})
	if len(problems) > 0 {
		return nil, validationError(ctx, problems)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := s.now().UTC()
	item := &Item{
		ID:           idgen.NewID(),
		Title:        normalized.Title,
		Description:  normalized.Description,
		Category:     normalized.Category,
		MediaType:    normalized.MediaType,
		URL:          normalized.URL,
		ThumbnailURL: normalized.ThumbnailURL,
		IsFeatured:   input.IsFeatured,
		Placement:    normalized.Placement,
		DisplayOrder: input.DisplayOrder,
		IsActive:     active,
		CreatedBy:    actor,
		UpdatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create content")
	}

	s.log.Info().Str("content_id", item.ID).Str("category", string(item.Category)).Str("actor", actor).Msg("content item created")
	return item, nil
}

// Update applies a partial update and re-validates the merged item.
func (s *Service) Update(ctx context.Context, id string, patch UpdateInput, actor string) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := Fields{
		Title:        item.Title,
		Description:  item.Description,
		Category:     string(item.Category),
		MediaType:    string(item.MediaType),
		URL:          item.URL,
		ThumbnailURL: item.ThumbnailURL,
		Placement:    string(item.Placement),
	}
	applyString(&fields.Title, patch.Title)
	applyString(&fields.Description, patch.Description)
	applyString(&fields.Category, patch.Category)
	applyString(&fields.MediaType, patch.MediaType)
	applyString(&fields.URL, patch.URL)
	applyString(&fields.ThumbnailURL, patch.ThumbnailURL)
	applyString(&fields.Placement, patch.Placement)

	normalized, problems := Check(fields)
	if len(problems) > 0 {
		return nil, validationError(ctx, problems)
	}

	item.Title = normalized.Title
	item.Description = normalized.Description
	item.Category = normalized.Category
	item.MediaType = normalized.MediaType
	item.URL = normalized.URL
	item.ThumbnailURL = normalized.ThumbnailURL
	item.Placement = normalized.Placement
	if patch.IsFeatured != nil {
		item.IsFeatured = *patch.IsFeatured
	}
	if patch.DisplayOrder != nil {
		item.DisplayOrder = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		item.IsActive = *patch.IsActive
	}
	item.UpdatedBy = actor
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update content")
	}
	return item, nil
}

// Delete removes a content item.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete content")
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func validationError(ctx context.Context, problems []string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		strings.Join(problems, "; "), nil, "5d0a8c3e-1f47-4b92-a6e3-7c9d2b0f4e58",
		map[string]any{"problems": problems})
}
