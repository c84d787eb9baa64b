package retention

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/maisonbelle/salon-site/internal/infrastructure/cache"
)

type purgerFunc func(ctx context.Context, cutoff time.Time) (int64, error)

func (f purgerFunc) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return f(ctx, cutoff)
}

type lockerFunc func(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error

func (f lockerFunc) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	return f(ctx, name, ttl, fn)
}

func TestPurgeOnceUsesRetentionWindow(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)
	var gotCutoff time.Time
	s := NewScheduler("0 3 * * *", 90*24*time.Hour, purgerFunc(func(_ context.Context, cutoff time.Time) (int64, error) {
		gotCutoff = cutoff
		return 4, nil
	}), nil, nil, zerolog.Nop())
	s.now = func() time.Time { return now }

	n, err := s.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, now.Add(-90*24*time.Hour), gotCutoff)
}

func TestPurgeOnceSkipsWhenLockHeld(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	called := false
	s := NewScheduler("0 3 * * *", time.Hour, purgerFunc(func(context.Context, time.Time) (int64, error) {
		called = true
		return 1, nil
	}), lockerFunc(func(context.Context, string, time.Duration, func(context.Context) error) error {
		return fmt.Errorf("%w: taken", cache.ErrLockHeld)
	}), nil, zerolog.Nop())

	n, err := s.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, called)
}

func TestPurgeOnceRunsUnderLock(t *testing.T) {
	var lockedName string
	s := NewScheduler("0 3 * * *", time.Hour, purgerFunc(func(context.Context, time.Time) (int64, error) {
		return 2, nil
	}), lockerFunc(func(ctx context.Context, name string, _ time.Duration, fn func(context.Context) error) error {
		lockedName = name
		return fn(ctx)
	}), nil, zerolog.Nop())

	n, err := s.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, lockName, lockedName)
}

func TestPurgeOnceSurfacesErrors(t *testing.T) {
	boom := errors.New("db down")
	s := NewScheduler("0 3 * * *", time.Hour, purgerFunc(func(context.Context, time.Time) (int64, error) {
		return 0, boom
	}), nil, nil, zerolog.Nop())

	_, err := s.PurgeOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunDisabledReturnsImmediately(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := NewScheduler("0 3 * * *", 0, purgerFunc(func(context.Context, time.Time) (int64, error) {
		t.Fatal("purge must not run when retention is disabled")
		return 0, nil
	}), nil, nil, zerolog.Nop())
	assert.NoError(t, s.Run(context.Background()))
	n, err := s.PurgeOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler("not a cron line", time.Hour, purgerFunc(func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}), nil, nil, zerolog.Nop())
	assert.Error(t, s.Run(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewScheduler("0 3 * * *", time.Hour, purgerFunc(func(context.Context, time.Time) (int64, error) {
		return 0, nil
	}), nil, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
