package inquiry

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

type MockRepository struct {
	items map[string]*Inquiry
}

func newMockRepository() *MockRepository {
	return &MockRepository{items: map[string]*Inquiry{}}
}

func (m *MockRepository) Create(_ context.Context, inquiry *Inquiry) error {
	cp := *inquiry
	m.items[inquiry.ID] = &cp
	return nil
}

func (m *MockRepository) Update(_ context.Context, inquiry *Inquiry) error {
	cp := *inquiry
	m.items[inquiry.ID] = &cp
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*Inquiry, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "inquiry not found", nil, "")
	}
	cp := *item
	return &cp, nil
}

func (m *MockRepository) FindByFilter(_ context.Context, filter Filter, _ *query.Pagination) ([]*Inquiry, error) {
	var out []*Inquiry
	for _, item := range m.items {
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MockRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	items, _ := m.FindByFilter(ctx, filter, nil)
	return int64(len(items)), nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())
}

func TestSubmitDefaultsToNew(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	inquiry, err := svc.Submit(context.Background(), SubmitInput{
		Name:            " Jane Doe ",
		Email:           "Jane@Example.COM",
		ServiceInterest: "bridal",
		Message:         "Wedding in June",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusNew, inquiry.Status)
	assert.Equal(t, "Jane Doe", inquiry.Name)
	assert.Equal(t, "jane@example.com", inquiry.Email)
	assert.Len(t, repo.items, 1)
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(newMockRepository())

	tests := []struct {
		name  string
		input SubmitInput
		want  string
	}{
		{"missing name", SubmitInput{Email: "a@b.co"}, "name is required"},
		{"missing email", SubmitInput{Name: "A"}, "email is required"},
		{"bad email", SubmitInput{Name: "A", Email: "not-an-email"}, "email must be a valid e-mail address"},
		{"long message", SubmitInput{Name: "A", Email: "a@b.co", Message: strings.Repeat("x", 2001)}, "message must be at most 2000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	inquiry, err := svc.Submit(ctx, SubmitInput{Name: "A", Email: "a@b.co"})
	require.NoError(t, err)

	notes := "called back, booked for Friday"
	updated, err := svc.UpdateStatus(ctx, inquiry.ID, "Booked", &notes, "owner@salon.test")
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, updated.Status)
	assert.Equal(t, notes, updated.AdminNotes)
	assert.Equal(t, "owner@salon.test", updated.HandledBy)

	booked := StatusBooked
	items, total, err := svc.List(ctx, Filter{Status: &booked}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	inquiry, err := svc.Submit(ctx, SubmitInput{Name: "A", Email: "a@b.co"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, inquiry.ID, "archived", nil, "owner@salon.test")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), `invalid status "archived"`)
	assert.Equal(t, StatusNew, repo.items[inquiry.ID].Status)
}

func TestUpdateStatusMissingInquiry(t *testing.T) {
	svc := newTestService(newMockRepository())
	_, err := svc.UpdateStatus(context.Background(), "nope", "closed", nil, "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestDelete(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	inquiry, err := svc.Submit(ctx, SubmitInput{Name: "A", Email: "a@b.co"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, inquiry.ID))
	assert.Empty(t, repo.items)
}
