package api

import (
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[List Users API]")

	users, err := h.Users.List(r.Context())
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get User API]")

	user, err := h.Users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateUserHandler lets a user edit their own profile.
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Update User API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if id != userID {
		utils.RespondError(w, &logMessageBuilder, "forbidden", http.StatusForbidden)
		return
	}

	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	if email, ok := fields["email"].(string); ok {
		fields["email"] = strings.TrimSpace(strings.ToLower(email))
	}

	user, err := h.Users.Update(r.Context(), id, fields)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

// DeleteUserHandler lets a user delete their own account.
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete User API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if id != userID {
		utils.RespondError(w, &logMessageBuilder, "forbidden", http.StatusForbidden)
		return
	}

	deleted, err := h.Users.Delete(r.Context(), id)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}
	if !deleted {
		utils.RespondError(w, &logMessageBuilder, "user not found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
