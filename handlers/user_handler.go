package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"camops/models"
	"camops/store"
	"camops/utils"
)

func ListUsers(w http.ResponseWriter, r *http.Request) {
	if userRole(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users, err := appStore.Users(ctx)
	if err != nil {
		log.Printf("users list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := appStore.User(ctx, userID(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func CreateUser(w http.ResponseWriter, r *http.Request) {
	if userRole(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req createUserRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleOperador
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := appStore.UserByEmail(ctx, req.Email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "email already registered")
		return
	} else if err != store.ErrNotFound {
		log.Printf("user lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	password := req.Password
	generated := false
	if password == "" {
		password = utils.GenerateRandomPassword(12)
		generated = true
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("password hash error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	id, err := appStore.NextID(ctx, "USR")
	if err != nil {
		log.Printf("user id error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		ID:           id,
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	cs := store.NewChangeSet()
	cs.Put(store.CollUsers, user.ID, user)
	if err := appStore.Commit(ctx, cs); err != nil {
		log.Printf("user create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	resp := map[string]interface{}{"user": user}
	if generated {
		// one-time reveal so the admin can hand the password over
		resp["password"] = password
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if userRole(r) != models.RoleAdmin && userID(r) != id {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req updateUserRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := appStore.User(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("user %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	// only admins may touch role/active
	if userRole(r) == models.RoleAdmin {
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.Active != nil {
			user.Active = *req.Active
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			log.Printf("password hash error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
			return
		}
		user.PasswordHash = hash
	}

	cs := store.NewChangeSet()
	cs.Put(store.CollUsers, user.ID, *user)
	if err := appStore.Commit(ctx, cs); err != nil {
		log.Printf("user %s update error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if userRole(r) != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	if userID(r) == id {
		utils.RespondWithError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := appStore.User(ctx, id); err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		log.Printf("user %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	cs := store.NewChangeSet()
	cs.Delete(store.CollUsers, id)
	if err := appStore.Commit(ctx, cs); err != nil {
		log.Printf("user %s delete error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "new password is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := appStore.User(ctx, userID(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("password hash error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	user.PasswordHash = hash

	cs := store.NewChangeSet()
	cs.Put(store.CollUsers, user.ID, *user)
	if err := appStore.Commit(ctx, cs); err != nil {
		log.Printf("password change error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// EnsureAdminUser seeds the first admin account on an empty user collection.
// The password comes from ADMIN_PASSWORD or is generated and logged once.
func EnsureAdminUser(ctx context.Context, adminEmail, adminPassword string) error {
	users, err := appStore.Users(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	if adminEmail == "" {
		adminEmail = "admin@camops.mx"
	}
	generated := false
	if adminPassword == "" {
		adminPassword = utils.GenerateRandomPassword(12)
		generated = true
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	id, err := appStore.NextID(ctx, "USR")
	if err != nil {
		return err
	}

	user := models.User{
		ID:           id,
		Name:         "Administrador",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	cs := store.NewChangeSet()
	cs.Put(store.CollUsers, user.ID, user)
	if err := appStore.Commit(ctx, cs); err != nil {
		return err
	}
	if generated {
		log.Printf("Seeded admin user %s with password %s (change it)", adminEmail, adminPassword)
	} else {
		log.Printf("Seeded admin user %s", adminEmail)
	}
	return nil
}
