package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// ListOutfitsHandler is the public feed, or one user's outfits when user_id
// is given.
func (h *Handler) ListOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[List Outfits API]")

	outfits, err := h.Outfits.ListByUser(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	utils.RespondJSON(w, http.StatusOK, outfitsWire(outfits))
}

func (h *Handler) CreateOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Create Outfit API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload map[string]interface{}
	if err := decodeJSON(r, &payload); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	for _, k := range serverSetKeys {
		delete(payload, k)
	}
	payload["user_id"] = userID

	o, err := models.NewOutfitFromPayload(bson.M(payload))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	id, err := h.Outfits.Create(r.Context(), o)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created outfit %s", id))
	utils.RespondJSON(w, http.StatusCreated, o.Wire())
}

func (h *Handler) GetOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Outfit API]")

	o, err := h.Outfits.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	utils.RespondJSON(w, http.StatusOK, o.Wire())
}

func (h *Handler) ownedOutfit(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder) *models.Outfit {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return nil
	}
	o, err := h.Outfits.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, logMessageBuilder, err, "outfit")
		return nil
	}
	if o.UserID != userID {
		utils.RespondError(w, logMessageBuilder, "forbidden", http.StatusForbidden)
		return nil
	}
	return o
}

func (h *Handler) UpdateOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Update Outfit API]")

	o := h.ownedOutfit(w, r, &logMessageBuilder)
	if o == nil {
		return
	}
	id := o.ID.Hex()

	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	modified, err := h.Outfits.Update(r.Context(), id, fields)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Outfit %s modified: %t", id, modified))

	updated, err := h.Outfits.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated.Wire())
}

func (h *Handler) DeleteOutfitHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Outfit API]")

	o := h.ownedOutfit(w, r, &logMessageBuilder)
	if o == nil {
		return
	}
	deleted, err := h.Outfits.Delete(r.Context(), o.ID.Hex())
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "outfit")
		return
	}
	if !deleted {
		utils.RespondError(w, &logMessageBuilder, "outfit not found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
