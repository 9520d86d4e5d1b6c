package handler

import (
	"net/http"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/service"
)

type FeedbackHandler interface {
	SubmitFeedback(w http.ResponseWriter, r *http.Request)
	GetLearnedPreferences(w http.ResponseWriter, r *http.Request)
}

type feedbackHandler struct {
	learningService service.LearningService
}

func NewFeedbackHandler(learningService service.LearningService) FeedbackHandler {
	return &feedbackHandler{
		learningService: learningService,
	}
}

// SubmitFeedback records a reaction to a served meal and learns from it
func (h *feedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var feedback entity.FeedbackRecord
	if err := decodeBody(r, &feedback); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.learningService.SubmitFeedback(r.Context(), userID, feedback)
	if err != nil {
		writeError(w, r, "submit feedback", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *feedbackHandler) GetLearnedPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	profile, err := h.learningService.LearnedProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, "get learned preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
