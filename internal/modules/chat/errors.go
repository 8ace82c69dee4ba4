package chat

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrChatLocked: chat opens only once the owner confirms the booking.
	ErrChatLocked   = errors.New("chat is locked until the booking is confirmed")
	ErrNotAParty    = errors.New("only the guest and the owner may use this chat")
	ErrEmptyMessage = errors.New("message text is empty")
)
