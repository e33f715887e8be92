package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"naksha/config"
	"naksha/models"
)

// DB is the global GORM handle.
var DB *gorm.DB

// InitDB opens the database and migrates the four core tables.
func InitDB() {
	db, err := gorm.Open(sqlite.Open(config.AppConfig.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	DB = db
	log.Println("Connected to database successfully!")
}

// Migrate applies the schema. Exposed so tests can run it against their own
// in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Consultant{},
		&models.WeeklyPattern{},
		&models.AvailabilitySlot{},
		&models.Client{},
		&models.Session{},
	)
}

// GetDB returns the global GORM handle.
func GetDB() *gorm.DB {
	return DB
}
