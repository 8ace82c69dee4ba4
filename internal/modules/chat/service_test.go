package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
)

type MockMessages struct {
	mock.Mock
}

func (m *MockMessages) Append(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessages) ListByBooking(ctx context.Context, bookingID int64, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, bookingID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockOwners struct {
	mock.Mock
}

func (m *MockOwners) GetOwnerID(ctx context.Context, listingID int64) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyChatMessage(ctx context.Context, recipientID int64, msg *domain.ChatMessage) error {
	args := m.Called(ctx, recipientID, msg)
	return args.Error(0)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{ID: 5, UserID: 1, ListingID: 10, Status: domain.BookingConfirmed, IsActive: true}
}

func newChat(bookings *MockBookings, owners *MockOwners, messages *MockMessages, notifier *MockNotifier) *Service {
	return NewService(messages, bookings, owners, NewHub(), notifier, logger.NewNop())
}

func TestSend_AppendsAndNotifiesOfflineRecipient(t *testing.T) {
	bookings := new(MockBookings)
	owners := new(MockOwners)
	messages := new(MockMessages)
	notifier := new(MockNotifier)
	svc := newChat(bookings, owners, messages, notifier)

	bookings.On("GetByID", mock.Anything, int64(5)).Return(confirmedBooking(), nil)
	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	messages.On("Append", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyChatMessage", mock.Anything, int64(2), mock.Anything).Return(nil)

	msg, err := svc.Send(context.Background(), 5, 1, "see you saturday")

	assert.NoError(t, err)
	assert.Equal(t, "see you saturday", msg.Text)
	notifier.AssertCalled(t, "NotifyChatMessage", mock.Anything, int64(2), mock.Anything)
}

func TestSend_ScrubsContactDetails(t *testing.T) {
	bookings := new(MockBookings)
	owners := new(MockOwners)
	messages := new(MockMessages)
	notifier := new(MockNotifier)
	svc := newChat(bookings, owners, messages, notifier)

	bookings.On("GetByID", mock.Anything, int64(5)).Return(confirmedBooking(), nil)
	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	messages.On("Append", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	msg, err := svc.Send(context.Background(), 5, 1, "write me at guest@example.com")

	assert.NoError(t, err)
	assert.NotContains(t, msg.Text, "guest@example.com")
	assert.Contains(t, msg.Text, "***")
}

func TestSend_CapsLongMessages(t *testing.T) {
	bookings := new(MockBookings)
	owners := new(MockOwners)
	messages := new(MockMessages)
	notifier := new(MockNotifier)
	svc := newChat(bookings, owners, messages, notifier)

	bookings.On("GetByID", mock.Anything, int64(5)).Return(confirmedBooking(), nil)
	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	messages.On("Append", mock.Anything, mock.Anything).Return(nil)
	notifier.On("NotifyChatMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	msg, err := svc.Send(context.Background(), 5, 1, strings.Repeat("a", 600))

	assert.NoError(t, err)
	assert.Len(t, msg.Text, domain.CommentMaxLen)
}

func TestSend_LockedUntilConfirmed(t *testing.T) {
	bookings := new(MockBookings)
	svc := newChat(bookings, new(MockOwners), new(MockMessages), new(MockNotifier))

	pending := confirmedBooking()
	pending.Status = domain.BookingPending
	bookings.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)

	_, err := svc.Send(context.Background(), 5, 1, "hello?")

	assert.ErrorIs(t, err, ErrChatLocked)
}

func TestSend_RejectsThirdParty(t *testing.T) {
	bookings := new(MockBookings)
	owners := new(MockOwners)
	svc := newChat(bookings, owners, new(MockMessages), new(MockNotifier))

	bookings.On("GetByID", mock.Anything, int64(5)).Return(confirmedBooking(), nil)
	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)

	_, err := svc.Send(context.Background(), 5, 99, "let me in")

	assert.ErrorIs(t, err, ErrNotAParty)
}

func TestHistory_VisibleToBothParties(t *testing.T) {
	bookings := new(MockBookings)
	owners := new(MockOwners)
	messages := new(MockMessages)
	svc := newChat(bookings, owners, messages, new(MockNotifier))

	bookings.On("GetByID", mock.Anything, int64(5)).Return(confirmedBooking(), nil)
	owners.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(2), nil)
	messages.On("ListByBooking", mock.Anything, int64(5), 50).Return([]domain.ChatMessage{{ID: 1, Text: "hi"}}, nil)

	for _, userID := range []int64{1, 2} {
		msgs, err := svc.History(context.Background(), 5, userID, 50)
		assert.NoError(t, err)
		assert.Len(t, msgs, 1)
	}
}
