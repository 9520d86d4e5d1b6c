package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrGenerationFailure):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError logs err once and sends it to the client. Internal errors are
// not echoed back.
func writeError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := statusFor(err)
	userID, _ := middleware.UserID(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, "user_id", userID, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn("Rejected request to "+action, "user_id", userID, "path", r.URL.Path, "error", err)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeMessage(w, status, msg)
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// requireUser returns the authenticated user or writes 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

// Health reports that the process is serving.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
