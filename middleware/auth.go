package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"camops/store"
	"camops/utils"
)

var appStore store.Store

// Init hands the middleware the store selected at startup.
func Init(st store.Store) {
	appStore = st
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil || claims == nil {
			log.Printf("AuthMiddleware: JWT validation failed: %v", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := appStore.User(r.Context(), claims.UserID)
		if err != nil {
			log.Printf("AuthMiddleware: user %s not found: %v", claims.UserID, err)
			utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.Active {
			utils.RespondWithError(w, http.StatusForbidden, "User is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "userName", user.Name)
		ctx = context.WithValue(ctx, "userRole", user.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
