package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
	"go.mongodb.org/mongo-driver/bson"
)

// serverSetKeys are assigned by the server and ignored in request bodies.
var serverSetKeys = []string{"id", "_id", "created_at"}

// CreateGarmentHandler stores a new garment authored by the caller.
func (h *Handler) CreateGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Create Garment API]")

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
	if t, _ := payload["type"].(string); t == "" {
		utils.RespondError(w, &logMessageBuilder, "type is required", http.StatusBadRequest)
		return
	}
	for _, k := range serverSetKeys {
		delete(payload, k)
	}
	payload["created_by"] = userID

	g, err := models.Decode(bson.M(payload))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	id, err := h.Garments.Create(r.Context(), g)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created %s %s", g.Type(), id))
	utils.RespondJSON(w, http.StatusCreated, models.ToWire(g))
}

// ListGarmentsHandler filters by creator_id, else by type and optional
// gender, else returns every garment.
func (h *Handler) ListGarmentsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[List Garments API]")

	q := r.URL.Query()
	var (
		garments []models.Garment
		err      error
	)
	switch {
	case q.Get("creator_id") != "":
		garments, err = h.Garments.ListByCreator(r.Context(), q.Get("creator_id"))
	case q.Get("type") != "":
		garments, err = h.Garments.ListByType(r.Context(), q.Get("type"), q.Get("gender"))
	default:
		garments, err = h.Garments.Search(r.Context(), nil)
	}
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, garmentsWire(garments))
}

func (h *Handler) GetGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Garment API]")

	g, err := h.Garments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.ToWire(g))
}

// ownedGarment loads the garment named in the path and checks that the
// caller created it. It writes the error response itself and returns nil on
// failure.
func (h *Handler) ownedGarment(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder) models.Garment {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, logMessageBuilder, "unauthorized", http.StatusUnauthorized)
		return nil
	}
	g, err := h.Garments.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, logMessageBuilder, err, "garment")
		return nil
	}
	if g.Common().CreatedBy != userID {
		utils.RespondError(w, logMessageBuilder, "forbidden", http.StatusForbidden)
		return nil
	}
	return g
}

// UpdateGarmentHandler applies a partial update and returns the stored garment.
func (h *Handler) UpdateGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Update Garment API]")

	g := h.ownedGarment(w, r, &logMessageBuilder)
	if g == nil {
		return
	}
	id := g.Common().ID.Hex()

	var fields map[string]interface{}
	if err := decodeJSON(r, &fields); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	modified, err := h.Garments.Update(r.Context(), id, fields)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Garment %s modified: %t", id, modified))

	updated, err := h.Garments.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.ToWire(updated))
}

func (h *Handler) DeleteGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Garment API]")

	g := h.ownedGarment(w, r, &logMessageBuilder)
	if g == nil {
		return
	}
	deleted, err := h.Garments.Delete(r.Context(), g.Common().ID.Hex())
	if err != nil {
		respondStoreError(w, &logMessageBuilder, err, "garment")
		return
	}
	if !deleted {
		utils.RespondError(w, &logMessageBuilder, "garment not found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
