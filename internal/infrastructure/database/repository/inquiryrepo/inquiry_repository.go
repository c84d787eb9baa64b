package inquiryrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/entities"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// InquiryGormRepository implements inquiry.Repository using GORM
type InquiryGormRepository struct {
	db *transaction.Database
}

var _ inquiry.Repository = (*InquiryGormRepository)(nil)

// NewInquiryGormRepository creates a new GORM-based inquiry repository
func NewInquiryGormRepository(db *transaction.Database) inquiry.Repository {
	return &InquiryGormRepository{db: db}
}

func (r *InquiryGormRepository) Create(ctx context.Context, item *inquiry.Inquiry) error {
	row := toEntity(item)
	if err := r.db.GetTx(ctx).Create(&row).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create inquiry", err, "8f2c6e41-3a7d-4b90-9e15-c4d0b8a2f736")
	}
	return nil
}

func (r *InquiryGormRepository) Update(ctx context.Context, item *inquiry.Inquiry) error {
	result := r.db.GetTx(ctx).Model(&entities.Inquiry{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"status":      string(item.Status),
			"admin_notes": item.AdminNotes,
			"handled_by":  item.HandledBy,
			"updated_at":  item.UpdatedAt,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update inquiry", result.Error, "d3a1b7e9-6c24-4f58-a0e3-7b9c2d5f1e84")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "inquiry not found", nil, "4b7e0d3c-9f15-4a62-8c7b-e2a5d1f0b938")
	}
	return nil
}

func (r *InquiryGormRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.GetTx(ctx).Delete(&entities.Inquiry{}, "id = ?", id).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to delete inquiry", err, "a9e5c1f7-2b3d-4e80-b6a4-0f8d3c7e2b15")
	}
	return nil
}

func (r *InquiryGormRepository) FindByID(ctx context.Context, id string) (*inquiry.Inquiry, error) {
	var row entities.Inquiry
	if err := r.db.GetTx(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "inquiry not found", err, "6e0f8b2d-4c91-4d37-a5f6-1b3e9c7a0d52")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find inquiry", err, "c2d7a4f0-8e63-4b19-9a2c-5f0e1d8b7c36")
	}
	return toDomain(row), nil
}

func (r *InquiryGormRepository) FindByFilter(ctx context.Context, filter inquiry.Filter, p *query.Pagination) ([]*inquiry.Inquiry, error) {
	q := applyFilter(r.db.GetTx(ctx).Model(&entities.Inquiry{}), filter)
	if p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}

	var rows []entities.Inquiry
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list inquiries", err, "0b8d3f6a-5e27-4c94-b1d0-9a4c7e2f3b68")
	}

	items := make([]*inquiry.Inquiry, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDomain(row))
	}
	return items, nil
}

func (r *InquiryGormRepository) Count(ctx context.Context, filter inquiry.Filter) (int64, error) {
	var count int64
	if err := applyFilter(r.db.GetTx(ctx).Model(&entities.Inquiry{}), filter).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count inquiries", err, "7a4c1e9b-0d58-4f23-8e6b-3c9f2a5d0e71")
	}
	return count, nil
}

func applyFilter(q *gorm.DB, filter inquiry.Filter) *gorm.DB {
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	return q
}

func toEntity(item *inquiry.Inquiry) entities.Inquiry {
	return entities.Inquiry{
		ID:              item.ID,
		Name:            item.Name,
		Email:           item.Email,
		Phone:           item.Phone,
		ServiceInterest: item.ServiceInterest,
		Message:         item.Message,
		Status:          string(item.Status),
		AdminNotes:      item.AdminNotes,
		HandledBy:       item.HandledBy,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func toDomain(row entities.Inquiry) *inquiry.Inquiry {
	return &inquiry.Inquiry{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		Phone:           row.Phone,
		ServiceInterest: row.ServiceInterest,
		Message:         row.Message,
		Status:          inquiry.Status(row.Status),
		AdminNotes:      row.AdminNotes,
		HandledBy:       row.HandledBy,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
