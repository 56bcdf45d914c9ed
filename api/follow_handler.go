package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/repository"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FollowRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Follow API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req FollowRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	if !primitive.IsValidObjectID(req.UserID) {
		utils.RespondError(w, &logMessageBuilder, "invalid user_id", http.StatusBadRequest)
		return
	}
	if req.UserID == userID {
		utils.RespondError(w, &logMessageBuilder, "cannot follow yourself", http.StatusBadRequest)
		return
	}
	if _, err := h.Users.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondError(w, &logMessageBuilder, "target user not found", http.StatusNotFound)
			return
		}
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}

	follow, err := h.Follows.Follow(r.Context(), userID, req.UserID)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "follow")
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%s now follows %s", userID, req.UserID))
	utils.RespondJSON(w, http.StatusCreated, follow)
}

func (h *Handler) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Unfollow API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	removed, err := h.Follows.Unfollow(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "follow")
		return
	}
	if !removed {
		utils.RespondError(w, &logMessageBuilder, "not following this user", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "unfollowed"})
}

func (h *Handler) FollowersHandler(w http.ResponseWriter, r *http.Request) {
	h.listFollowEnds(w, r, "[Followers API]", h.Follows.Followers)
}

func (h *Handler) FollowingHandler(w http.ResponseWriter, r *http.Request) {
	h.listFollowEnds(w, r, "[Following API]", h.Follows.Following)
}

// listFollowEnds resolves the ids returned by ends into user profiles. The
// user defaults to the caller; accounts deleted since the follow are skipped.
func (h *Handler) listFollowEnds(w http.ResponseWriter, r *http.Request, tag string, ends func(context.Context, string) ([]string, error)) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, tag)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		var err error
		if userID, err = GetUserIDFromContext(r.Context()); err != nil {
			utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	ids, err := ends(r.Context(), userID)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "follow")
		return
	}
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := h.Users.GetByID(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Skipping missing user %s", id))
			continue
		}
		if err != nil {
			respondStoreError(w, &logMessageBuilder, err, "user")
			return
		}
		users = append(users, u)
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) IsFollowingHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Is Following API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}
	following, err := h.Follows.IsFollowing(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "follow")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"is_following": following})
}
