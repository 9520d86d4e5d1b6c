package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akihiro4321/favefit-sub001/logger"
	"github.com/akihiro4321/favefit-sub001/util"
)

type contextKey string

const UserContextKey contextKey = "user_id"

// Authenticate requires "Authorization: Bearer <token>". With a secret the
// token must be an HS256 JWT carrying the user ID. Without one the token
// itself is taken as the user ID, which is only meant for local use.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized: No Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(parts[1])

			userID := token
			if jwtSecret != "" {
				claims, err := util.ValidateJWT(token, []byte(jwtSecret))
				if err != nil {
					logger.Debug("Rejected token", "error", err)
					http.Error(w, "Unauthorized: Invalid or expired token", http.StatusUnauthorized)
					return
				}
				userID = claims.UserID
			}

			ctx := context.WithValue(r.Context(), UserContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user of the request.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserContextKey).(string)
	return userID, ok && userID != ""
}
