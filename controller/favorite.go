package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/repository"

	"github.com/google/uuid"
)

// FavoriteController interface
type FavoriteController interface {
	AddFavorite(ctx context.Context, favorite *entity.FavoriteRecipe) error
	ListFavorites(ctx context.Context, userID string) ([]*entity.FavoriteRecipe, error)
}

type favoriteController struct {
	favoriteRepository *repository.FavoriteRepository
}

// NewFavoriteController creates and returns a new FavoriteController
func NewFavoriteController(favoriteRepository *repository.FavoriteRepository) FavoriteController {
	return &favoriteController{
		favoriteRepository: favoriteRepository,
	}
}

// AddFavorite stores a new favorite recipe
func (c *favoriteController) AddFavorite(ctx context.Context, favorite *entity.FavoriteRecipe) error {
	favorite.Title = strings.TrimSpace(favorite.Title)
	if favorite.Title == "" {
		return fmt.Errorf("%w: title is required", entity.ErrInvalidInput)
	}
	if favorite.Tags == nil {
		favorite.Tags = []string{}
	}
	favorite.ID = uuid.NewString()
	return c.favoriteRepository.CreateFavorite(ctx, favorite)
}

// ListFavorites returns every favorite of a user
func (c *favoriteController) ListFavorites(ctx context.Context, userID string) ([]*entity.FavoriteRecipe, error) {
	return c.favoriteRepository.ListFavorites(ctx, userID, 0)
}
