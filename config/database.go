package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"guidelines-cms/models"
)

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
		// posts and revisions reference each other; referential integrity is
		// enforced in the service layer instead of by DDL constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. Shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Revision{},
		&models.File{},
		&models.Site{},
		&models.Subject{},
		&models.Question{},
		&models.Device{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
