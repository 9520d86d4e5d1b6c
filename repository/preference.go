package repository

import (
	"context"
	"errors"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/mapper"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository stores the learned preference ledger.
type PreferenceRepository struct {
	DB *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{
		DB: db,
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *PreferenceRepository) WithTx(tx *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: tx}
}

// GetProfile returns the user's ledger, or an empty one if the user has no
// feedback yet.
func (r *PreferenceRepository) GetProfile(ctx context.Context, userID string) (*entity.LearnedPreferenceProfile, error) {
	var prefModel model.LearnedPreference
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&prefModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.NewLearnedPreferenceProfile(), nil
		}
		return nil, err
	}
	return mapper.PreferenceModelToEntity(&prefModel), nil
}

// LockProfile loads the ledger with a row lock, creating an empty row first
// if needed. It must run inside a transaction.
func (r *PreferenceRepository) LockProfile(ctx context.Context, userID string) (*entity.LearnedPreferenceProfile, error) {
	db := r.DB.WithContext(ctx)
	empty := mapper.PreferenceEntityToModel(userID, entity.NewLearnedPreferenceProfile())
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(empty).Error; err != nil {
		return nil, err
	}

	var prefModel model.LearnedPreference
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&prefModel).Error; err != nil {
		return nil, err
	}
	return mapper.PreferenceModelToEntity(&prefModel), nil
}

// SaveProfile writes the whole ledger back.
func (r *PreferenceRepository) SaveProfile(ctx context.Context, userID string, profile *entity.LearnedPreferenceProfile) error {
	prefModel := mapper.PreferenceEntityToModel(userID, profile)
	return r.DB.WithContext(ctx).Model(&model.LearnedPreference{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"cuisines":        prefModel.Cuisines,
		"flavors":         prefModel.Flavors,
		"ingredients":     prefModel.Ingredients,
		"avoid_patterns":  prefModel.AvoidPatterns,
		"total_feedbacks": prefModel.TotalFeedbacks,
	}).Error
}
