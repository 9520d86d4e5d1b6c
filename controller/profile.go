package controller

import (
	"context"
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/nutrition"
	"github.com/akihiro4321/favefit-sub001/repository"
)

// ProfileController interface
type ProfileController interface {
	GetSettings(ctx context.Context, userID string) (*entity.UserSettings, error)
	SaveSettings(ctx context.Context, settings *entity.UserSettings) error
	GetTargets(ctx context.Context, userID string) (*entity.NutritionTargets, error)
}

// profileController struct
type profileController struct {
	settingsRepository *repository.SettingsRepository
}

// NewProfileController creates and returns a new ProfileController
func NewProfileController(settingsRepository *repository.SettingsRepository) ProfileController {
	return &profileController{
		settingsRepository: settingsRepository,
	}
}

// GetSettings retrieves the settings of a user
func (c *profileController) GetSettings(ctx context.Context, userID string) (*entity.UserSettings, error) {
	return c.settingsRepository.GetSettings(ctx, userID)
}

// SaveSettings validates and stores the settings of a user
func (c *profileController) SaveSettings(ctx context.Context, settings *entity.UserSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	freq, _ := entity.ParseCheatDayFrequency(string(settings.CheatDayFrequency))
	settings.CheatDayFrequency = freq

	disliked := make([]string, 0, len(settings.DislikedIngredients))
	for _, name := range settings.DislikedIngredients {
		if name = strings.TrimSpace(name); name != "" {
			disliked = append(disliked, name)
		}
	}
	settings.DislikedIngredients = disliked

	return c.settingsRepository.SaveSettings(ctx, settings)
}

// GetTargets computes the daily nutrition targets from the stored profile
func (c *profileController) GetTargets(ctx context.Context, userID string) (*entity.NutritionTargets, error) {
	settings, err := c.settingsRepository.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	targets := nutrition.Compute(settings.Profile, &settings.Preferences)
	return &targets, nil
}
