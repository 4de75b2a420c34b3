package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "labstock/internal/log"
	"labstock/models"
)

type userResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

// AdminUsers lets administrators manage accounts:
//
//	GET    /app/api/admin/users
//	PUT    /app/api/admin/users/{id}/role
//	DELETE /app/api/admin/users/{id}
func AdminUsers(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "admin request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	actor, ok := currentActor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !actor.Role.CanAdminister() {
		applog.Debug(r.Context(), "admin request denied", "user", actor.ID, "role", actor.Role)
		writeJSONError(w, http.StatusForbidden, "only administrators can manage accounts")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/admin/users"), "/")
	if path == "" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listUsers(w, r)
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid user identifier", "identifier", segments[0], "error", err)
		http.NotFound(w, r)
		return
	}
	userID := uint(idValue)

	switch {
	case len(segments) == 2 && segments[1] == "role":
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		updateUserRole(w, r, userID)
	case len(segments) == 1:
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if actor.ID == strconv.FormatUint(idValue, 10) {
			writeJSONError(w, http.StatusConflict, "you cannot delete your own account")
			return
		}
		deleteUser(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := database.WithContext(r.Context()).Order("email asc").Find(&users).Error; err != nil {
		applog.Error(r.Context(), "failed to list users", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, projectUser(user))
	}
	writeJSON(w, http.StatusOK, responses)
}

func updateUserRole(w http.ResponseWriter, r *http.Request, userID uint) {
	var payload roleUpdateRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	role := strings.ToUpper(strings.TrimSpace(payload.Role))
	if !models.ValidRole(role) {
		writeJSONError(w, http.StatusBadRequest, "role must be ADMIN, STAFF or VIEWER")
		return
	}

	var user models.User
	if err := database.WithContext(r.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to load user for role update", "error", err, "id", userID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load user")
		return
	}

	if err := database.WithContext(r.Context()).Model(&user).Update("role", role).Error; err != nil {
		applog.Error(r.Context(), "failed to update user role", "error", err, "id", userID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update role")
		return
	}
	user.Role = models.Role(role)
	applog.Info(r.Context(), "user role changed", "id", userID, "role", role)
	writeJSON(w, http.StatusOK, projectUser(user))
}

func deleteUser(w http.ResponseWriter, r *http.Request, userID uint) {
	result := database.WithContext(r.Context()).Delete(&models.User{}, userID)
	if result.Error != nil {
		applog.Error(r.Context(), "failed to delete user", "error", result.Error, "id", userID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}
	applog.Info(r.Context(), "user deleted", "id", userID)
	w.WriteHeader(http.StatusNoContent)
}

func projectUser(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
