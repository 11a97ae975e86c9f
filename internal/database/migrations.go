package database

import (
	"github.com/agrohaul/agrohaul-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.StorageFacility{},
		&models.Booking{},
		&models.BookingGood{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS village text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS user_type text DEFAULT 'farmer'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('farmer', 'transporter'))`)
	}

	// Status checks on bookings keep bad writes out even when a handler slips
	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('new', 'accepted', 'in_transit', 'completed'))`)

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_payment_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_payment_status_check CHECK (payment_status IN ('unpaid', 'paid'))`)

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_intake_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_intake_status_check CHECK (intake_status IN ('none', 'arrived', 'stored'))`)
	}

	return nil
}
