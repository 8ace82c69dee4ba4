package repository

import (
	"context"
	"time"

	"rentora/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	UserID    int64          `gorm:"column:user_id;index:idx_notifications_user_unread"`
	Type      string         `gorm:"column:type"`
	Title     string         `gorm:"column:title"`
	Body      string         `gorm:"column:body;type:text"`
	Data      datatypes.JSON `gorm:"column:data"`
	IsRead    bool           `gorm:"column:is_read;index:idx_notifications_user_unread"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func (r *NotificationRepository) Create(ctx context.Context, userID int64, kind, title, body string, data datatypes.JSON) (int64, error) {
	m := notificationModel{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return m.ID, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []notificationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Notification{
			ID:        m.ID,
			UserID:    m.UserID,
			Type:      m.Type,
			Title:     m.Title,
			Body:      m.Body,
			Data:      m.Data,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}
