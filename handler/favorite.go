package handler

import (
	"net/http"

	"github.com/akihiro4321/favefit-sub001/controller"
	"github.com/akihiro4321/favefit-sub001/entity"
)

type FavoriteHandler interface {
	AddFavorite(w http.ResponseWriter, r *http.Request)
	ListFavorites(w http.ResponseWriter, r *http.Request)
}

type favoriteHandler struct {
	favoriteController controller.FavoriteController
}

func NewFavoriteHandler(favoriteController controller.FavoriteController) FavoriteHandler {
	return &favoriteHandler{
		favoriteController: favoriteController,
	}
}

func (h *favoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var favorite entity.FavoriteRecipe
	if err := decodeBody(r, &favorite); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	favorite.UserID = userID

	if err := h.favoriteController.AddFavorite(r.Context(), &favorite); err != nil {
		writeError(w, r, "add favorite", err)
		return
	}
	writeJSON(w, http.StatusCreated, favorite)
}

func (h *favoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	favorites, err := h.favoriteController.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(w, r, "list favorites", err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}
