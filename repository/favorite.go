package repository

import (
	"context"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/mapper"
	"github.com/akihiro4321/favefit-sub001/model"

	"gorm.io/gorm"
)

// FavoriteRepository stores the recipes a user saved.
type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{
		DB: db,
	}
}

// CreateFavorite stores a favorite recipe.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, favorite *entity.FavoriteRecipe) error {
	favoriteModel := mapper.FavoriteEntityToModel(favorite)
	if err := r.DB.WithContext(ctx).Create(favoriteModel).Error; err != nil {
		return err
	}
	favorite.CreatedAt = favoriteModel.CreatedAt
	return nil
}

// ListFavorites returns a user's favorites, newest first.
func (r *FavoriteRepository) ListFavorites(ctx context.Context, userID string, limit int) ([]*entity.FavoriteRecipe, error) {
	var rows []model.FavoriteRecipe
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.FavoriteRecipe, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.FavoriteModelToEntity(&rows[i]))
	}
	return out, nil
}
