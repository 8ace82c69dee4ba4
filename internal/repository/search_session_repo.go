package repository

import (
	"context"
	"time"

	"rentora/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SearchSessionRepository struct {
	db *gorm.DB
}

func NewSearchSessionRepository(db *gorm.DB) *SearchSessionRepository {
	return &SearchSessionRepository{db: db}
}

type searchSessionModel struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	UserID       int64          `gorm:"column:user_id;index"`
	Filters      datatypes.JSON `gorm:"column:filters"`
	ListingIDs   []int64        `gorm:"column:listing_ids;serializer:json"`
	CurrentIndex int            `gorm:"column:current_index;default:0"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (searchSessionModel) TableName() string { return "search_sessions" }

func toDomainSearchSession(m searchSessionModel) *domain.SearchSession {
	return &domain.SearchSession{
		ID:           m.ID,
		UserID:       m.UserID,
		Filters:      m.Filters,
		ListingIDs:   m.ListingIDs,
		CurrentIndex: m.CurrentIndex,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *SearchSessionRepository) Create(ctx context.Context, s *domain.SearchSession) error {
	m := searchSessionModel{
		UserID:       s.UserID,
		Filters:      s.Filters,
		ListingIDs:   s.ListingIDs,
		CurrentIndex: s.CurrentIndex,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainSearchSession(m)
	return nil
}

func (r *SearchSessionRepository) GetByID(ctx context.Context, id int64) (*domain.SearchSession, error) {
	var m searchSessionModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSearchSession(m), nil
}

// UpdateCursor persists the browse position. Sessions are otherwise
// append-only history.
func (r *SearchSessionRepository) UpdateCursor(ctx context.Context, id int64, index int) error {
	return r.db.WithContext(ctx).Model(&searchSessionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"current_index": index, "updated_at": time.Now()}).Error
}
