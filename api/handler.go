package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/repository"
	"github.com/raushankrgupta/chicforgeeks-api/store"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

const maxJSONBody = 1 << 20

// AssetStorage is the object store holding uploaded 3D models.
type AssetStorage interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, objectKey string) error
	List(ctx context.Context, prefix string) ([]models.StoredObject, error)
}

// Retexturer forwards retexture jobs to the texturing service.
type Retexturer interface {
	Retexture(ctx context.Context, req models.RetextureRequest) (int, map[string]interface{}, error)
}

// Mailer sends transactional email.
type Mailer interface {
	SendEmail(toName, toEmail, subject, textContent, htmlContent string) error
}

// Handler serves the HTTP API. Storage, Meshy and Mailer are optional; the
// routes that need a missing one answer with an error.
type Handler struct {
	Garments *repository.GarmentRepository
	Outfits  *repository.OutfitRepository
	Users    *repository.UserRepository
	Follows  *repository.FollowRepository
	Files    *repository.FileRepository
	Jobs     *repository.RetextureJobRepository

	Storage AssetStorage
	Meshy   Retexturer
	Mailer  Mailer
	Log     *logger.Logger
}

func NewHandler(db store.Database, log *logger.Logger) *Handler {
	return &Handler{
		Garments: repository.NewGarmentRepository(db, log),
		Outfits:  repository.NewOutfitRepository(db, log),
		Users:    repository.NewUserRepository(db),
		Follows:  repository.NewFollowRepository(db),
		Files:    repository.NewFileRepository(db),
		Jobs:     repository.NewRetextureJobRepository(db),
		Log:      log,
	}
}

// decodeJSON reads a JSON object body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

// respondStoreError maps repository and model errors to HTTP responses.
func respondStoreError(w http.ResponseWriter, logMessageBuilder *strings.Builder, err error, what string) {
	utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("%s error: %v", what, err))

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(w, logMessageBuilder, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondError(w, logMessageBuilder, what+" not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrConflict):
		utils.RespondError(w, logMessageBuilder, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrMalformedRecord):
		utils.RespondError(w, logMessageBuilder, "stored "+what+" is malformed", http.StatusInternalServerError)
	default:
		utils.RespondError(w, logMessageBuilder, "Database error", http.StatusInternalServerError)
	}
}

func garmentsWire(garments []models.Garment) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(garments))
	for _, g := range garments {
		out = append(out, models.ToWire(g))
	}
	return out
}

func outfitsWire(outfits []*models.Outfit) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(outfits))
	for _, o := range outfits {
		out = append(out, o.Wire())
	}
	return out
}
