package admin

import (
	"context"
	"time"

	"github.com/maisonbelle/salon-site/internal/domain/query"
)

// User is an entry of the admin allow-list.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	AddedBy     string     `json:"added_by,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository defines persistence operations for the allow-list.
type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, activeOnly bool, p *query.Pagination) ([]*User, error)
	CountActive(ctx context.Context) (int64, error)
}

// MagicLinkSender asks the hosted auth provider to e-mail a sign-in link.
type MagicLinkSender interface {
	SendMagicLink(ctx context.Context, email string) error
}
