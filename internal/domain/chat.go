package domain

import "time"

// ChatMessage is one append-only text entry in a booking's chat. The chat
// channel stays locked until the owner confirms the booking.
type ChatMessage struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
