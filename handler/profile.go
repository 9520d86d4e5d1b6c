package handler

import (
	"net/http"

	"github.com/akihiro4321/favefit-sub001/controller"
	"github.com/akihiro4321/favefit-sub001/entity"
)

type ProfileHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	SaveProfile(w http.ResponseWriter, r *http.Request)
	GetTargets(w http.ResponseWriter, r *http.Request)
}

type profileHandler struct {
	profileController controller.ProfileController
}

func NewProfileHandler(profileController controller.ProfileController) ProfileHandler {
	return &profileHandler{
		profileController: profileController,
	}
}

// GetProfile returns the caller's stored settings
func (h *profileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	settings, err := h.profileController.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SaveProfile replaces the caller's settings
func (h *profileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var settings entity.UserSettings
	if err := decodeBody(r, &settings); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	settings.UserID = userID

	if err := h.profileController.SaveSettings(r.Context(), &settings); err != nil {
		writeError(w, r, "save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// GetTargets returns the daily nutrition targets derived from the profile
func (h *profileHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	targets, err := h.profileController.GetTargets(r.Context(), userID)
	if err != nil {
		writeError(w, r, "compute targets", err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}
