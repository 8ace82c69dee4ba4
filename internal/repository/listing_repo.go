package repository

import (
	"context"
	"errors"
	"time"

	"rentora/internal/domain"

	"gorm.io/gorm"
)

var ErrListingHasActiveBookings = errors.New("listing has active bookings")

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingTypeModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex"`
}

func (listingTypeModel) TableName() string { return "listing_types" }

type listingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	OwnerID       int64     `gorm:"column:owner_id;index"`
	TypeID        int64     `gorm:"column:type_id;index"`
	Address       string    `gorm:"column:address"`
	ShortAddress  string    `gorm:"column:short_address"`
	NightlyPrice  float64   `gorm:"column:nightly_price"`
	MaxGuests     int       `gorm:"column:max_guests"`
	Description   *string   `gorm:"column:description"`
	RewardPercent int       `gorm:"column:reward_percent;default:7"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	IsDraft       bool      `gorm:"column:is_draft;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func toDomainListing(m listingModel) *domain.Listing {
	var description string
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Listing{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		TypeID:        m.TypeID,
		Address:       m.Address,
		ShortAddress:  m.ShortAddress,
		NightlyPrice:  m.NightlyPrice,
		MaxGuests:     m.MaxGuests,
		Description:   description,
		RewardPercent: m.RewardPercent,
		IsActive:      m.IsActive,
		IsDraft:       m.IsDraft,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toListingModel(l *domain.Listing) listingModel {
	var description *string
	if l.Description != "" {
		v := l.Description
		description = &v
	}

	return listingModel{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		TypeID:        l.TypeID,
		Address:       l.Address,
		ShortAddress:  l.ShortAddress,
		NightlyPrice:  l.NightlyPrice,
		MaxGuests:     l.MaxGuests,
		Description:   description,
		RewardPercent: l.RewardPercent,
		IsActive:      l.IsActive,
		IsDraft:       l.IsDraft,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	m := toListingModel(l)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*l = *toDomainListing(m)
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var m listingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainListing(m), nil
}

func (r *ListingRepository) GetOwnerID(ctx context.Context, listingID int64) (int64, error) {
	var ownerID int64
	tx := r.db.WithContext(ctx).Model(&listingModel{}).
		Select("owner_id").Where("id = ?", listingID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return ownerID, nil
}

func (r *ListingRepository) ListTypes(ctx context.Context) ([]domain.ListingType, error) {
	var rows []listingTypeModel
	tx := r.db.WithContext(ctx).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ListingType, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ListingType{ID: m.ID, Name: m.Name})
	}
	return out, nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	var rows []listingModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Listing, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainListing(m))
	}
	return out, nil
}

// FindCandidates returns active, non-draft listings matching the type and
// price filters in catalog order. Availability is filtered by the caller.
func (r *ListingRepository) FindCandidates(ctx context.Context, typeIDs []int64, priceMin, priceMax *float64) ([]domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&listingModel{}).
		Where("is_draft = ? AND is_active = ?", false, true)

	if len(typeIDs) > 0 {
		q = q.Where("type_id IN ?", typeIDs)
	}
	if priceMin != nil {
		q = q.Where("nightly_price >= ?", *priceMin)
	}
	if priceMax != nil {
		q = q.Where("nightly_price <= ?", *priceMax)
	}

	var rows []listingModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Listing, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainListing(m))
	}
	return out, nil
}

// Publish takes a listing out of draft after the owner confirms submission.
func (r *ListingRepository) Publish(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&listingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_draft": false, "updated_at": time.Now()}).Error
}

// Deactivate soft-deletes a listing. It refuses while any blocking-status
// booking still holds a date range on it.
func (r *ListingRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&bookingModel{}).
			Where("listing_id = ? AND is_active = ? AND status IN ?",
				id, true, blockingStatusStrings()).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrListingHasActiveBookings
		}

		return tx.Model(&listingModel{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_active": false, "updated_at": time.Now()}).Error
	})
}
