package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table owned by the
// booking core.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&listingTypeModel{},
		&listingModel{},
		&bookingModel{},
		&bookingTransitionModel{},
		&searchSessionModel{},
		&chatMessageModel{},
		&notificationModel{},
	)
}

// EnsureConstraints installs the postgres-only backstops: an exclusion
// constraint that rejects overlapping blocking-status bookings on the same
// listing even if two transactions race past the application-level check.
// On sqlite this is a no-op; the locked re-check in BookingRepository.Create
// is the only guard there.
func EnsureConstraints(db *gorm.DB, postgres bool) error {
	if !postgres {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	return db.Exec(`
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_double_booking'
  ) THEN
    ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
      EXCLUDE USING gist (
        listing_id WITH =,
        tstzrange(check_in, check_out, '[)') WITH &&
      )
      WHERE (status IN ('pending', 'confirmed', 'placeholder') AND is_active);
  END IF;
END
$$`).Error
}
