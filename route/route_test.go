package route

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/handler"
)

func TestSetupRouter(t *testing.T) {
	cfg := &entity.Config{
		Server: entity.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:   entity.AuthConfig{JWTSecret: "s3cret"},
	}
	r := SetupRouter(cfg, Handlers{
		Profile:  handler.NewProfileHandler(nil),
		Favorite: handler.NewFavoriteHandler(nil),
		Plan:     handler.NewPlanHandler(nil),
		Feedback: handler.NewFeedbackHandler(nil),
	})

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health is public", http.MethodGet, "/healthz", http.StatusOK},
		{"profile needs auth", http.MethodGet, "/profile", http.StatusUnauthorized},
		{"plans need auth", http.MethodPost, "/plans", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
