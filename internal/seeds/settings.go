package seeds

import (
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedSettings inserts any missing system setting with its default value.
// Existing values are left alone.
func SeedSettings(db *gorm.DB) error {
	rows := make([]models.SystemSettings, 0, len(models.SettingDefaults))
	for key, value := range models.SettingDefaults {
		rows = append(rows, models.SystemSettings{
			Key:       key,
			Value:     value,
			UpdatedBy: "system",
			UpdatedAt: time.Now(),
		})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
