package contentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/entities"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ContentGormRepository implements content.Repository using GORM
type ContentGormRepository struct {
	db *transaction.Database
}

var _ content.Repository = (*ContentGormRepository)(nil)

// NewContentGormRepository creates a new GORM-based content repository
func NewContentGormRepository(db *transaction.Database) content.Repository {
	return &ContentGormRepository{db: db}
}

func (r *ContentGormRepository) Create(ctx context.Context, item *content.Item) error {
	row := toEntity(item)
	if err := r.db.GetTx(ctx).Create(&row).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create content item", err, "2c7e9a14-5b3d-4f80-a6c1-8e0d4b2f9a57")
	}
	item.CreatedAt = row.CreatedAt
	item.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ContentGormRepository) Update(ctx context.Context, item *content.Item) error {
	result := r.db.GetTx(ctx).Model(&entities.ContentItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"title":         item.Title,
			"description":   item.Description,
			"category":      string(item.Category),
			"media_type":    string(item.MediaType),
			"url":           item.URL,
			"thumbnail_url": item.ThumbnailURL,
			"is_featured":   item.IsFeatured,
			"placement":     string(item.Placement),
			"display_order": item.DisplayOrder,
			"is_active":     item.IsActive,
			"updated_by":    item.UpdatedBy,
			"updated_at":    item.UpdatedAt,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update content item", result.Error, "7d1f3b60-8e2a-4c95-b047-3a6e9c1d5f28")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "content item not found", nil, "e4a8c2d9-1f6b-4e37-9c50-b8d2a7f3e061")
	}
	return nil
}

func (r *ContentGormRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.GetTx(ctx).Delete(&entities.ContentItem{}, "id = ?", id).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to delete content item", err, "9a0e5c73-2d4f-4b18-8e6a-c1f7b3d0a492")
	}
	return nil
}

func (r *ContentGormRepository) FindByID(ctx context.Context, id string) (*content.Item, error) {
	var row entities.ContentItem
	if err := r.db.GetTx(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "content item not found", err, "b61d4f28-7c3e-4a09-95e2-0d8a6c1b7f34")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find content item", err, "3e8b0a57-c6d1-4f29-a7e4-5b2c9d0f8a16")
	}
	return toDomain(row), nil
}

func (r *ContentGormRepository) FindByFilter(ctx context.Context, filter content.Filter, p *query.Pagination) ([]*content.Item, error) {
	q := applyFilter(r.db.GetTx(ctx).Model(&entities.ContentItem{}), filter)
	if p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}
	q = q.Order("display_order ASC").Order("created_at DESC")

	var rows []entities.ContentItem
	if err := q.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list content items", err, "f0c7a2e5-4b9d-4e61-8d3a-7e1b5c9f2d48")
	}

	items := make([]*content.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDomain(row))
	}
	return items, nil
}

func (r *ContentGormRepository) Count(ctx context.Context, filter content.Filter) (int64, error) {
	var count int64
	if err := applyFilter(r.db.GetTx(ctx).Model(&entities.ContentItem{}), filter).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count content items", err, "51b9e3c0-6a2f-4d87-b4e8-2c0d7a9f1e63")
	}
	return count, nil
}

func applyFilter(q *gorm.DB, filter content.Filter) *gorm.DB {
	if filter.Category != nil {
		q = q.Where("category = ?", string(*filter.Category))
	}
	if filter.MediaType != nil {
		q = q.Where("media_type = ?", string(*filter.MediaType))
	}
	if filter.Placement != nil {
		q = q.Where("placement = ?", string(*filter.Placement))
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	return q
}

func toEntity(item *content.Item) entities.ContentItem {
	return entities.ContentItem{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Category:     string(item.Category),
		MediaType:    string(item.MediaType),
		URL:          item.URL,
		ThumbnailURL: item.ThumbnailURL,
		IsFeatured:   item.IsFeatured,
		Placement:    string(item.Placement),
		DisplayOrder: item.DisplayOrder,
		IsActive:     item.IsActive,
		CreatedBy:    item.CreatedBy,
		UpdatedBy:    item.UpdatedBy,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func toDomain(row entities.ContentItem) *content.Item {
	return &content.Item{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Category:     content.Category(row.Category),
		MediaType:    content.MediaType(row.MediaType),
		URL:          row.URL,
		ThumbnailURL: row.ThumbnailURL,
		IsFeatured:   row.IsFeatured,
		Placement:    content.Placement(row.Placement),
		DisplayOrder: row.DisplayOrder,
		IsActive:     row.IsActive,
		CreatedBy:    row.CreatedBy,
		UpdatedBy:    row.UpdatedBy,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
