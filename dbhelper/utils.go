package dbhelper

import (
	"fmt"

	"gorm.io/gorm"

	"shootapi/models"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GenerationRecord{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.FavoriteModel{})
	}
}

func Migrate(db *gorm.DB, model interface{}) error {
	if err := db.AutoMigrate(model); err != nil {
		return fmt.Errorf("migrating %T: %w", model, err)
	}
	return nil
}
