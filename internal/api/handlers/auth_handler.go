package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/engine/cards"
	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/auth"
	"cardsynch/internal/platform/database"
	"cardsynch/internal/platform/models"
	"cardsynch/internal/platform/repositories"
)

const registerRetries = 3

type AuthHandler struct {
	users *repositories.UserRepository
}

func NewAuthHandler(users *repositories.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register creates the local user record for a verified identity. Calling
// it again for the same identity returns the existing record, so clients
// can invoke it on every login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity := r.Context().Value(apiContext.Identity).(*auth.Identity)

	existing, err := h.users.GetBySubject(identity.Subject)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to look up user", nil)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, existing)
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	// An empty body is fine; profile hints then come from the token.
	json.NewDecoder(r.Body).Decode(&req)

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = identity.Name
	}
	if displayName == "" && identity.Email != "" {
		displayName, _, _ = strings.Cut(identity.Email, "@")
	}

	base := cards.Slugify(displayName, cards.HandleMaxLen)
	if base == "" {
		base = "user"
	}

	var user *models.User
	for attempt := 0; attempt < registerRetries; attempt++ {
		handle, err := cards.GenerateSlug(base, h.users.Handles())
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate handle", nil)
			return
		}

		now := time.Now().Unix()
		user = &models.User{
			ID:          "usr_" + uuid.NewString(),
			Subject:     identity.Subject,
			Email:       identity.Email,
			DisplayName: displayName,
			Handle:      handle,
			AvatarURL:   req.AvatarURL,
			Plan:        models.PlanFree,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = h.users.Create(user)
		if err == nil {
			writeJSON(w, http.StatusCreated, user)
			return
		}
		if !database.IsUniqueViolation(err) {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create user", nil)
			return
		}

		// A concurrent register for the same subject also trips the unique
		// index; return that row instead of probing for another handle.
		existing, lookupErr := h.users.GetBySubject(identity.Subject)
		if lookupErr == nil && existing != nil {
			writeJSON(w, http.StatusOK, existing)
			return
		}
	}

	errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Could not allocate a unique handle", nil)
}

type UserHandler struct {
	users *repositories.UserRepository
}

func NewUserHandler(users *repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)

	var req struct {
		DisplayName *string `json:"display_name"`
		Handle      *string `json:"handle"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	displayName := user.DisplayName
	if req.DisplayName != nil {
		displayName = strings.TrimSpace(*req.DisplayName)
		if displayName == "" {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Display name cannot be empty", nil)
			return
		}
	}

	handle := user.Handle
	if req.Handle != nil && *req.Handle != user.Handle {
		handle = cards.Slugify(*req.Handle, cards.HandleMaxLen)
		if handle == "" {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid handle", nil)
			return
		}
		taken, err := h.users.ExistsByHandle(handle)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to check handle", nil)
			return
		}
		if taken {
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Handle is already taken", nil)
			return
		}
	}

	avatarURL := user.AvatarURL
	if req.AvatarURL != nil {
		avatarURL = *req.AvatarURL
	}

	if err := h.users.UpdateProfile(user.ID, displayName, handle, avatarURL); err != nil {
		if database.IsUniqueViolation(err) {
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Handle is already taken", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update user", nil)
		return
	}

	user.DisplayName = displayName
	user.Handle = handle
	user.AvatarURL = avatarURL
	user.UpdatedAt = time.Now().Unix()
	writeJSON(w, http.StatusOK, user)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
