package adminrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/entities"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// AdminGormRepository implements admin.Repository using GORM
type AdminGormRepository struct {
	db *transaction.Database
}

var _ admin.Repository = (*AdminGormRepository)(nil)

// NewAdminGormRepository creates a new GORM-based allow-list repository
func NewAdminGormRepository(db *transaction.Database) admin.Repository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) Create(ctx context.Context, user *admin.User) error {
	row := entities.AdminUser{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsActive:    user.IsActive,
		AddedBy:     user.AddedBy,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if err := r.db.GetTx(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "admin already exists", err, "2e6a9c14-8b3f-4d70-a5e9-c1d7f0b4e382")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create admin", err, "d9b4f1e7-0c62-4a38-8e5d-7f2a3c6b9d01")
	}
	return nil
}

func (r *AdminGormRepository) Update(ctx context.Context, user *admin.User) error {
	result := r.db.GetTx(ctx).Model(&entities.AdminUser{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"display_name":  user.DisplayName,
			"is_active":     user.IsActive,
			"last_login_at": user.LastLoginAt,
			"updated_at":    user.UpdatedAt,
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update admin", result.Error, "7c0e3a58-f9d1-4b26-b4a7-0e8c5d2f6a19")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "admin not found", nil, "a1f8d5b3-6e29-4c74-9b0e-3d7c1a5f8e62")
	}
	return nil
}

func (r *AdminGormRepository) FindByEmail(ctx context.Context, email string) (*admin.User, error) {
	var row entities.AdminUser
	if err := r.db.GetTx(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "admin not found", err, "4d7b2e0a-c3f5-4e91-8a6d-b0e9f2c4d735")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find admin", err, "e5c9a3f1-7d04-4b6e-a2c8-1f6d0b9e3a54")
	}
	return toDomain(row), nil
}

func (r *AdminGormRepository) List(ctx context.Context, activeOnly bool, p *query.Pagination) ([]*admin.User, error) {
	q := r.db.GetTx(ctx).Model(&entities.AdminUser{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}

	var rows []entities.AdminUser
	if err := q.Order("email ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list admins", err, "0f3e7b9c-2a58-4d16-9c4f-e8b1d5a7c023")
	}
	users := make([]*admin.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toDomain(row))
	}
	return users, nil
}

func (r *AdminGormRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetTx(ctx).Model(&entities.AdminUser{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count admins", err, "b8a2d6f4-5e13-4c97-8d0b-a4f7e1c3b926")
	}
	return count, nil
}

func toDomain(row entities.AdminUser) *admin.User {
	return &admin.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		IsActive:    row.IsActive,
		AddedBy:     row.AddedBy,
		LastLoginAt: row.LastLoginAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
