package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"camops/models"
	"camops/store"
	"camops/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := appStore.UserByEmail(ctx, req.Email)
	if err == store.ErrNotFound {
		recordLogin(ctx, r, "", req.Email, false)
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Printf("login lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if !user.Active || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		recordLogin(ctx, r, user.ID, req.Email, false)
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Name, user.Role)
	if err != nil {
		log.Printf("login token error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	recordLogin(ctx, r, user.ID, req.Email, true)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	// tokens are stateless; logout is client-side
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func ValidateToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}
	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil || claims == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"valid":  true,
		"userID": claims.UserID,
		"name":   claims.Name,
		"role":   claims.Role,
	})
}

// ListLoginHistory is admin-only.
func ListLoginHistory(w http.ResponseWriter, r *http.Request) {
	if userRole(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := appStore.LoginHistory(ctx)
	if err != nil {
		log.Printf("login history error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	if records == nil {
		records = []models.LoginRecord{}
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}

// recordLogin is best-effort: a failed write must never block the login path.
func recordLogin(ctx context.Context, r *http.Request, userID, email string, success bool) {
	rec := models.LoginRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Success:   success,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	cs := store.NewChangeSet()
	cs.Put(store.CollLoginHistory, rec.ID, rec)
	if err := appStore.Commit(ctx, cs); err != nil {
		log.Printf("login record write failed: %v", err)
	}
}
