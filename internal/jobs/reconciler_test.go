package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockSource) ListConfirmedCheckedOutBefore(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockSource) ListOwnerSelfBlocks(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockMachine struct {
	mock.Mock
}

func (m *MockMachine) Expire(ctx context.Context, b *domain.Booking) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockMachine) Complete(ctx context.Context, b *domain.Booking) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockMachine) NormalizePlaceholder(ctx context.Context, b *domain.Booking) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func newReconciler(source *MockSource, machine *MockMachine) *Reconciler {
	return NewReconciler(source, machine, 24*time.Hour, nil, logger.NewNop())
}

func TestSweepExpired_CutoffIsExactlyApprovalWindow(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	wantCutoff := now.Add(-24 * time.Hour)
	source.On("ListPendingCreatedBefore", mock.Anything, wantCutoff).Return([]domain.Booking{}, nil)

	_, err := r.SweepExpired(context.Background(), now)

	assert.NoError(t, err)
	source.AssertCalled(t, "ListPendingCreatedBefore", mock.Anything, wantCutoff)
}

func TestSweepExpired_ContinuesPastFailures(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	stale := []domain.Booking{
		{ID: 1, Status: domain.BookingPending},
		{ID: 2, Status: domain.BookingPending},
		{ID: 3, Status: domain.BookingPending},
	}
	source.On("ListPendingCreatedBefore", mock.Anything, mock.Anything).Return(stale, nil)
	machine.On("Expire", mock.Anything, &stale[0]).Return(true, nil)
	machine.On("Expire", mock.Anything, &stale[1]).Return(false, errors.New("deadlock"))
	machine.On("Expire", mock.Anything, &stale[2]).Return(true, nil)

	expired, err := r.SweepExpired(context.Background(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 2, expired)
	machine.AssertNumberOfCalls(t, "Expire", 3)
}

func TestSweepExpired_RaceLossesAreNotCounted(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	stale := []domain.Booking{{ID: 1, Status: domain.BookingPending}}
	source.On("ListPendingCreatedBefore", mock.Anything, mock.Anything).Return(stale, nil)
	machine.On("Expire", mock.Anything, mock.Anything).Return(false, nil)

	expired, err := r.SweepExpired(context.Background(), time.Now())

	assert.NoError(t, err)
	assert.Zero(t, expired)
}

func TestSweepCompleted_PassesNowThrough(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	now := time.Date(2026, time.September, 1, 3, 0, 0, 0, time.UTC)
	ended := []domain.Booking{{ID: 4, Status: domain.BookingConfirmed}}
	source.On("ListConfirmedCheckedOutBefore", mock.Anything, now).Return(ended, nil)
	machine.On("Complete", mock.Anything, &ended[0]).Return(true, nil)

	completed, err := r.SweepCompleted(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 1, completed)
}

func TestSweepPlaceholders_NormalizesSelfBlocks(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	selfBlocks := []domain.Booking{
		{ID: 7, Status: domain.BookingPending},
		{ID: 8, Status: domain.BookingConfirmed},
	}
	source.On("ListOwnerSelfBlocks", mock.Anything).Return(selfBlocks, nil)
	machine.On("NormalizePlaceholder", mock.Anything, &selfBlocks[0]).Return(true, nil)
	machine.On("NormalizePlaceholder", mock.Anything, &selfBlocks[1]).Return(true, nil)

	normalized, err := r.SweepPlaceholders(context.Background(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 2, normalized)
}

func TestSweepExpired_SourceFailureAborts(t *testing.T) {
	source := new(MockSource)
	machine := new(MockMachine)
	r := newReconciler(source, machine)

	boom := errors.New("connection refused")
	source.On("ListPendingCreatedBefore", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := r.SweepExpired(context.Background(), time.Now())

	assert.ErrorIs(t, err, boom)
	machine.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything)
}
