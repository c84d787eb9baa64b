package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

type MockRepository struct {
	users map[string]*User
}

func newMockRepository(users ...*User) *MockRepository {
	repo := &MockRepository{users: map[string]*User{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func (m *MockRepository) Create(_ context.Context, user *User) error {
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *MockRepository) Update(_ context.Context, user *User) error {
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "admin not found", nil, "")
	}
	cp := *user
	return &cp, nil
}

func (m *MockRepository) List(_ context.Context, activeOnly bool, _ *query.Pagination) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *MockRepository) CountActive(ctx context.Context) (int64, error) {
	users, _ := m.List(ctx, true, nil)
	return int64(len(users)), nil
}

type MockSender struct {
	SendFunc func(ctx context.Context, email string) error
	sent     []string
}

func (m *MockSender) SendMagicLink(ctx context.Context, email string) error {
	m.sent = append(m.sent, email)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	return nil
}

func newTestService(repo Repository, sender MagicLinkSender) *Service {
	return NewService(repo, sender, telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())
}

func TestRequestMagicLinkOnlyForActiveAdmins(t *testing.T) {
	repo := newMockRepository(
		&User{Email: "owner@salon.test", IsActive: true},
		&User{Email: "former@salon.test", IsActive: false},
	)
	sender := &MockSender{}
	svc := newTestService(repo, sender)
	ctx := context.Background()

	require.NoError(t, svc.RequestMagicLink(ctx, " Owner@Salon.test "))
	require.NoError(t, svc.RequestMagicLink(ctx, "former@salon.test"))
	require.NoError(t, svc.RequestMagicLink(ctx, "stranger@example.com"))

	assert.Equal(t, []string{"owner@salon.test"}, sender.sent)
}

func TestRequestMagicLinkValidatesEmail(t *testing.T) {
	svc := newTestService(newMockRepository(), &MockSender{})
	err := svc.RequestMagicLink(context.Background(), "not-an-email")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestRequestMagicLinkSurfacesProviderErrors(t *testing.T) {
	repo := newMockRepository(&User{Email: "owner@salon.test", IsActive: true})
	sender := &MockSender{SendFunc: func(ctx context.Context, _ string) error {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "provider returned 500", nil, "")
	}}
	svc := newTestService(repo, sender)

	err := svc.RequestMagicLink(context.Background(), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))

	svc = newTestService(repo, nil)
	err = svc.RequestMagicLink(context.Background(), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestAddAndRemoveAdmin(t *testing.T) {
	repo := newMockRepository(&User{Email: "owner@salon.test", IsActive: true})
	svc := newTestService(repo, nil)
	ctx := context.Background()

	added, err := svc.AddAdmin(ctx, "Front@Salon.test", "Front desk", "owner@salon.test")
	require.NoError(t, err)
	assert.Equal(t, "front@salon.test", added.Email)
	assert.True(t, added.IsActive)
	assert.Equal(t, "owner@salon.test", added.AddedBy)

	removed, err := svc.RemoveAdmin(ctx, "front@salon.test", "owner@salon.test")
	require.NoError(t, err)
	assert.False(t, removed.IsActive)

	allowed, err := svc.IsAllowed(ctx, "front@salon.test")
	require.NoError(t, err)
	assert.False(t, allowed)

	readded, err := svc.AddAdmin(ctx, "front@salon.test", "", "owner@salon.test")
	require.NoError(t, err)
	assert.True(t, readded.IsActive)
	assert.Equal(t, "Front desk", readded.DisplayName)
}

func TestRemoveLastAdminIsRejected(t *testing.T) {
	repo := newMockRepository(&User{Email: "owner@salon.test", IsActive: true})
	svc := newTestService(repo, nil)

	_, err := svc.RemoveAdmin(context.Background(), "owner@salon.test", "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestBootstrap(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, nil)

	require.NoError(t, svc.Bootstrap(context.Background(), []string{"owner@salon.test", "owner@salon.test"}))
	assert.Len(t, repo.users, 1)
	assert.Equal(t, "bootstrap", repo.users["owner@salon.test"].AddedBy)
}

func TestIsAllowedPropagatesRepositoryErrors(t *testing.T) {
	svc := newTestService(&failingRepository{}, nil)
	_, err := svc.IsAllowed(context.Background(), "owner@salon.test")
	assert.Error(t, err)
}

type failingRepository struct{ MockRepository }

func (f *failingRepository) FindByEmail(context.Context, string) (*User, error) {
	return nil, errors.New("database is down")
}
