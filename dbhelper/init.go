package dbhelper

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shootapi/config"
	"shootapi/models"
)

func SetupDB(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			cfg.DBUsername,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		),
	), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	if err := MigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SetupTestDB opens a private in-memory sqlite database with the schema
// migrated. Every call gets a fresh database.
func SetupTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if err := MigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}

func MigrateAll(db *gorm.DB) error {
	for _, model := range []interface{}{&models.GenerationRecord{}, &models.FavoriteModel{}} {
		if err := Migrate(db, model); err != nil {
			return err
		}
	}
	return nil
}
