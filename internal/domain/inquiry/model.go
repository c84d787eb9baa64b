package inquiry

import (
	"context"
	"strings"
	"time"

	"github.com/maisonbelle/salon-site/internal/domain/query"
)

// Status tracks an inquiry through the front desk.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusBooked    Status = "booked"
	StatusClosed    Status = "closed"
	StatusSpam      Status = "spam"
)

// Statuses lists every accepted status.
var Statuses = []Status{StatusNew, StatusContacted, StatusBooked, StatusClosed, StatusSpam}

// ParseStatus normalizes s and reports whether it is a known status.
func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if status == known {
			return status, true
		}
	}
	return status, false
}

// Inquiry is a contact form submission.
type Inquiry struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	ServiceInterest string    `json:"service_interest,omitempty"`
	Message         string    `json:"message,omitempty"`
	Status          Status    `json:"status"`
	AdminNotes      string    `json:"admin_notes,omitempty"`
	HandledBy       string    `json:"handled_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SubmitInput is the public contact form payload.
type SubmitInput struct {
	Name            string `json:"name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone" validate:"omitempty,max=40"`
	ServiceInterest string `json:"service_interest" validate:"omitempty,max=120"`
	Message         string `json:"message" validate:"omitempty,max=2000"`
}

// Filter narrows inquiry listings.
type Filter struct {
	Status *Status
}

// Repository defines persistence operations for inquiries.
type Repository interface {
	Create(ctx context.Context, inquiry *Inquiry) error
	Update(ctx context.Context, inquiry *Inquiry) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Inquiry, error)
	FindByFilter(ctx context.Context, filter Filter, p *query.Pagination) ([]*Inquiry, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
