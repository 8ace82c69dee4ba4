package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, userID int64, kind, title, body string, data datatypes.JSON) (int64, error) {
	args := m.Called(ctx, userID, kind, title, body, data)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockOwners struct {
	mock.Mock
}

func (m *MockOwners) GetOwnerID(ctx context.Context, listingID int64) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTransport struct {
	mock.Mock
	sent []string
}

func (m *MockTransport) Send(ctx context.Context, recipientID int64, text string, buttons []Button) error {
	m.sent = append(m.sent, text)
	args := m.Called(ctx, recipientID, text, buttons)
	return args.Error(0)
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         5,
		UserID:     1,
		ListingID:  10,
		Status:     domain.BookingPending,
		CheckIn:    time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, time.September, 13, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		TotalPrice: 9000,
		Comment:    "late arrival",
		IsActive:   true,
	}
}

func TestNotifyBookingRequested_OwnerSeesRewardAndButtons(t *testing.T) {
	repo := new(MockRepo)
	owners := new(MockOwners)
	transport := new(MockTransport)
	svc := NewService(repo, owners, transport, nil, logger.NewNop())

	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	repo.On("Create", mock.Anything, int64(2), TypeBookingRequested, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	transport.On("Send", mock.Anything, int64(2), mock.Anything, mock.MatchedBy(func(buttons []Button) bool {
		return len(buttons) == 2 &&
			buttons[0].Action == "booking_confirm_5" &&
			buttons[1].Action == "booking_decline_5"
	})).Return(nil)

	l := &domain.Listing{ID: 10, OwnerID: 2, ShortAddress: "Abay 15", RewardPercent: 12}
	err := svc.NotifyBookingRequested(context.Background(), testBooking(), l)

	assert.NoError(t, err)
	assert.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0], "reward 12%")
	assert.Contains(t, transport.sent[0], "9000")
}

func TestNotifyBookingConfirmed_BothPartiesGetChatButton(t *testing.T) {
	repo := new(MockRepo)
	owners := new(MockOwners)
	transport := new(MockTransport)
	svc := NewService(repo, owners, transport, nil, logger.NewNop())

	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(buttons []Button) bool {
		return len(buttons) == 1 && buttons[0].Action == "chat_open_5"
	})).Return(nil)

	err := svc.NotifyBookingConfirmed(context.Background(), testBooking())

	assert.NoError(t, err)
	transport.AssertNumberOfCalls(t, "Send", 2)
}

func TestNotify_DeliveryFailureIsSwallowed(t *testing.T) {
	repo := new(MockRepo)
	owners := new(MockOwners)
	transport := new(MockTransport)
	svc := NewService(repo, owners, transport, nil, logger.NewNop())

	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("recipient unreachable"))

	err := svc.NotifyBookingExpired(context.Background(), testBooking())

	assert.NoError(t, err)
}

func TestNotifyBookingDeclined_GuestOnly(t *testing.T) {
	repo := new(MockRepo)
	owners := new(MockOwners)
	transport := new(MockTransport)
	svc := NewService(repo, owners, transport, nil, logger.NewNop())

	repo.On("Create", mock.Anything, int64(1), TypeBookingDeclined, mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	transport.On("Send", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil)

	err := svc.NotifyBookingDeclined(context.Background(), testBooking(), domain.DefaultDeclineReason)

	assert.NoError(t, err)
	transport.AssertNumberOfCalls(t, "Send", 1)
	owners.AssertNotCalled(t, "GetOwnerID", mock.Anything, mock.Anything)
}
