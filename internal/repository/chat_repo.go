package repository

import (
	"context"
	"time"

	"rentora/internal/domain"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

type chatMessageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id;index"`
	SenderID  int64     `gorm:"column:sender_id"`
	Text      string    `gorm:"column:text;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (chatMessageModel) TableName() string { return "booking_chat_messages" }

func (r *ChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	m := chatMessageModel{
		BookingID: msg.BookingID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	msg.ID = m.ID
	return nil
}

func (r *ChatRepository) ListByBooking(ctx context.Context, bookingID int64, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []chatMessageModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id").Limit(limit).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ChatMessage, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ChatMessage{
			ID:        m.ID,
			BookingID: m.BookingID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
