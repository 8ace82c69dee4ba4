package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/metrics"

	"gorm.io/datatypes"
)

const (
	TypeBookingRequested = "booking_requested"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingDeclined  = "booking_declined"
	TypeBookingExpired   = "booking_expired"
	TypeBookingCompleted = "booking_completed"
	TypeChatMessage      = "chat_message"
)

// Repository is the persistence slice the service needs.
type Repository interface {
	Create(ctx context.Context, userID int64, kind, title, body string, data datatypes.JSON) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}

// OwnerResolver maps a listing to its owner for recipient lookup.
type OwnerResolver interface {
	GetOwnerID(ctx context.Context, listingID int64) (int64, error)
}

type Service struct {
	repo      Repository
	owners    OwnerResolver
	transport Transport
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewService(repo Repository, owners OwnerResolver, transport Transport, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{repo: repo, owners: owners, transport: transport, metrics: m, log: log}
}

// notify persists the notification and hands it to the transport. Delivery
// failures are logged and swallowed: a dead chat must never roll back the
// state transition that produced the message.
func (s *Service) notify(ctx context.Context, userID int64, kind, text string, data map[string]any, buttons []Button) {
	var doc datatypes.JSON
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			doc = b
		}
	}

	if _, err := s.repo.Create(ctx, userID, kind, kind, text, doc); err != nil {
		s.log.Error("persist notification failed", "user_id", userID, "type", kind, "error", err)
	}

	if err := s.transport.Send(ctx, userID, text, buttons); err != nil {
		s.log.Warn("notification delivery failed", "user_id", userID, "type", kind, "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(kind).Inc()
	}
}

func (s *Service) NotifyBookingRequested(ctx context.Context, b *domain.Booking, l *domain.Listing) error {
	ownerID, err := s.owners.GetOwnerID(ctx, b.ListingID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"New booking request #%d for %s\nFrom %s to %s, %d guest(s), total %.2f (your reward %d%%)\nComment: %s",
		b.ID, l.ShortAddress,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		b.GuestCount, b.TotalPrice, l.RewardPercent, b.Comment,
	)
	buttons := []Button{
		{Label: "Confirm", Action: fmt.Sprintf("booking_confirm_%d", b.ID)},
		{Label: "Decline", Action: fmt.Sprintf("booking_decline_%d", b.ID)},
	}
	s.notify(ctx, ownerID, TypeBookingRequested, text, map[string]any{"booking_id": b.ID, "listing_id": l.ID}, buttons)
	return nil
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error {
	ownerID, err := s.owners.GetOwnerID(ctx, b.ListingID)
	if err != nil {
		return err
	}

	guestText := fmt.Sprintf(
		"Your booking #%d is confirmed!\nUse the chat below for payment and check-in details.", b.ID)
	s.notify(ctx, b.UserID, TypeBookingConfirmed, guestText,
		map[string]any{"booking_id": b.ID},
		[]Button{{Label: "Open chat", Action: fmt.Sprintf("chat_open_%d", b.ID)}})

	ownerText := fmt.Sprintf(
		"You confirmed booking #%d. The guest was notified; the chat with them is now open.", b.ID)
	s.notify(ctx, ownerID, TypeBookingConfirmed, ownerText,
		map[string]any{"booking_id": b.ID},
		[]Button{{Label: "Open chat", Action: fmt.Sprintf("chat_open_%d", b.ID)}})
	return nil
}

func (s *Service) NotifyBookingDeclined(ctx context.Context, b *domain.Booking, reason string) error {
	text := fmt.Sprintf(
		"Your booking #%d was not confirmed.\nReason: %s\nWant to start a new search?", b.ID, reason)
	s.notify(ctx, b.UserID, TypeBookingDeclined, text,
		map[string]any{"booking_id": b.ID, "reason": reason},
		[]Button{{Label: "New search", Action: "search_restart"}})
	return nil
}

func (s *Service) NotifyBookingExpired(ctx context.Context, b *domain.Booking) error {
	ownerID, err := s.owners.GetOwnerID(ctx, b.ListingID)
	if err != nil {
		return err
	}

	guestText := fmt.Sprintf(
		"Your booking request #%d (%s to %s) was cancelled: the owner did not confirm in time.",
		b.ID, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
	s.notify(ctx, b.UserID, TypeBookingExpired, guestText,
		map[string]any{"booking_id": b.ID},
		[]Button{{Label: "New search", Action: "search_restart"}})

	ownerText := fmt.Sprintf(
		"Booking request #%d (total %.2f) was cancelled: the confirmation window ran out.",
		b.ID, b.TotalPrice)
	s.notify(ctx, ownerID, TypeBookingExpired, ownerText,
		map[string]any{"booking_id": b.ID}, nil)
	return nil
}

func (s *Service) NotifyBookingCompleted(ctx context.Context, b *domain.Booking) error {
	ownerID, err := s.owners.GetOwnerID(ctx, b.ListingID)
	if err != nil {
		return err
	}

	guestText := fmt.Sprintf(
		"Booking #%d (%s to %s) is complete. We hope to see you again!",
		b.ID, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
	s.notify(ctx, b.UserID, TypeBookingCompleted, guestText,
		map[string]any{"booking_id": b.ID}, nil)

	ownerText := fmt.Sprintf("Booking #%d is complete. We hope everything went well.", b.ID)
	s.notify(ctx, ownerID, TypeBookingCompleted, ownerText,
		map[string]any{"booking_id": b.ID}, nil)
	return nil
}

func (s *Service) NotifyChatMessage(ctx context.Context, recipientID int64, msg *domain.ChatMessage) error {
	text := fmt.Sprintf("New message in booking #%d chat:\n%s", msg.BookingID, msg.Text)
	s.notify(ctx, recipientID, TypeChatMessage, text,
		map[string]any{"booking_id": msg.BookingID},
		[]Button{{Label: "Open chat", Action: fmt.Sprintf("chat_open_%d", msg.BookingID)}})
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}
