package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"riskradar/models"
)

const settingsRowID = 1

// SettingsRepository persists the operator's model choice.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the saved settings. ok is false when nothing was saved yet.
func (r *SettingsRepository) Load() (settings models.Settings, ok bool, err error) {
	err = r.db.Where("id = ?", settingsRowID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("load settings: %w", err)
	}
	return settings, true, nil
}

// SaveModel stores the model choice.
func (r *SettingsRepository) SaveModel(model models.Model) error {
	return r.upsert(models.Settings{ID: settingsRowID, Model: string(model)}, "model")
}

func (r *SettingsRepository) upsert(row models.Settings, column string) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
