package chat

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/sanitize"
)

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type OwnerResolver interface {
	GetOwnerID(ctx context.Context, listingID int64) (int64, error)
}

type MessageRepository interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
	ListByBooking(ctx context.Context, bookingID int64, limit int) ([]domain.ChatMessage, error)
}

type MessageNotifier interface {
	NotifyChatMessage(ctx context.Context, recipientID int64, msg *domain.ChatMessage) error
}

type Service struct {
	messages MessageRepository
	bookings BookingReader
	owners   OwnerResolver
	hub      *Hub
	notifier MessageNotifier
	log      logger.Logger
}

func NewService(
	messages MessageRepository,
	bookings BookingReader,
	owners OwnerResolver,
	hub *Hub,
	notifier MessageNotifier,
	log logger.Logger,
) *Service {
	return &Service{
		messages: messages,
		bookings: bookings,
		owners:   owners,
		hub:      hub,
		notifier: notifier,
		log:      log,
	}
}

// Send appends one message to a confirmed booking's chat. The text is
// scrubbed of contact details and capped before it is stored. Delivery to
// the counterparty goes through the live hub when they are online, through
// a notification otherwise.
func (s *Service) Send(ctx context.Context, bookingID, senderID int64, text string) (*domain.ChatMessage, error) {
	text = sanitize.Message(strings.TrimSpace(text))
	text = sanitize.Capped(text, domain.CommentMaxLen)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	b, ownerID, err := s.confirmedBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	recipientID, err := s.counterparty(b, ownerID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		BookingID: bookingID,
		SenderID:  senderID,
		Text:      text,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}

	if !s.hub.SendToUser(recipientID, msg) {
		_ = s.notifier.NotifyChatMessage(ctx, recipientID, msg)
	}
	return msg, nil
}

// History returns the most recent messages of a booking's chat, oldest
// first. Only the two parties may read it.
func (s *Service) History(ctx context.Context, bookingID, requesterID int64, limit int) ([]domain.ChatMessage, error) {
	b, ownerID, err := s.confirmedBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.counterparty(b, ownerID, requesterID); err != nil {
		return nil, err
	}
	return s.messages.ListByBooking(ctx, bookingID, limit)
}

// Authorize checks that the user may join the booking's chat, for the
// websocket upgrade path.
func (s *Service) Authorize(ctx context.Context, bookingID, userID int64) error {
	b, ownerID, err := s.confirmedBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	_, err = s.counterparty(b, ownerID, userID)
	return err
}

func (s *Service) confirmedBooking(ctx context.Context, bookingID int64) (*domain.Booking, int64, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrBookingNotFound
		}
		return nil, 0, err
	}
	if !b.IsActive {
		return nil, 0, ErrBookingNotFound
	}
	if b.Status != domain.BookingConfirmed {
		return nil, 0, ErrChatLocked
	}
	ownerID, err := s.owners.GetOwnerID(ctx, b.ListingID)
	if err != nil {
		return nil, 0, err
	}
	return b, ownerID, nil
}

func (s *Service) counterparty(b *domain.Booking, ownerID, userID int64) (int64, error) {
	switch userID {
	case b.UserID:
		return ownerID, nil
	case ownerID:
		return b.UserID, nil
	default:
		return 0, ErrNotAParty
	}
}
