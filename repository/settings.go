package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/mapper"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository is a struct that holds the database connection.
type SettingsRepository struct {
	DB *gorm.DB
}

// NewSettingsRepository creates and returns a new SettingsRepository.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{
		DB: db,
	}
}

// GetSettings fetches the settings of a user.
func (r *SettingsRepository) GetSettings(ctx context.Context, userID string) (*entity.UserSettings, error) {
	var settingsModel model.UserSettings
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&settingsModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: settings for user %s", entity.ErrNotFound, userID)
		}
		return nil, err
	}
	return mapper.SettingsModelToEntity(&settingsModel), nil
}

// SaveSettings inserts or replaces the settings of a user.
func (r *SettingsRepository) SaveSettings(ctx context.Context, settings *entity.UserSettings) error {
	settingsModel := mapper.SettingsEntityToModel(settings)
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"profile", "preferences", "fixed_meals", "cheat_day_frequency", "disliked_ingredients", "updated_at",
		}),
	}).Create(settingsModel).Error
}
