package api

import (
	"net/http"

	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

// Routes registers every endpoint under /api.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.RegisterHandler)
	mux.HandleFunc("POST /api/auth/login", h.LoginHandler)
	mux.HandleFunc("GET /api/auth/me", h.RequireAuth(h.MeHandler))

	// Users
	mux.HandleFunc("GET /api/users", h.RequireAuth(h.ListUsersHandler))
	mux.HandleFunc("GET /api/users/{id}", h.RequireAuth(h.GetUserHandler))
	mux.HandleFunc("PUT /api/users/{id}", h.RequireAuth(h.UpdateUserHandler))
	mux.HandleFunc("DELETE /api/users/{id}", h.RequireAuth(h.DeleteUserHandler))

	// Garments
	mux.HandleFunc("POST /api/garments", h.RequireAuth(h.CreateGarmentHandler))
	mux.HandleFunc("GET /api/garments", h.ListGarmentsHandler)
	mux.HandleFunc("GET /api/garments/{id}", h.GetGarmentHandler)
	mux.HandleFunc("PUT /api/garments/{id}", h.RequireAuth(h.UpdateGarmentHandler))
	mux.HandleFunc("DELETE /api/garments/{id}", h.RequireAuth(h.DeleteGarmentHandler))

	// Outfits
	mux.HandleFunc("GET /api/outfits", h.ListOutfitsHandler)
	mux.HandleFunc("POST /api/outfits", h.RequireAuth(h.CreateOutfitHandler))
	mux.HandleFunc("GET /api/outfits/{id}", h.RequireAuth(h.GetOutfitHandler))
	mux.HandleFunc("PUT /api/outfits/{id}", h.RequireAuth(h.UpdateOutfitHandler))
	mux.HandleFunc("DELETE /api/outfits/{id}", h.RequireAuth(h.DeleteOutfitHandler))

	// Follows
	mux.HandleFunc("POST /api/follows", h.RequireAuth(h.FollowHandler))
	mux.HandleFunc("DELETE /api/follows/{id}", h.RequireAuth(h.UnfollowHandler))
	mux.HandleFunc("GET /api/follows/followers", h.RequireAuth(h.FollowersHandler))
	mux.HandleFunc("GET /api/follows/following", h.RequireAuth(h.FollowingHandler))
	mux.HandleFunc("GET /api/follows/is-following/{id}", h.RequireAuth(h.IsFollowingHandler))

	// Files
	mux.HandleFunc("POST /api/upload", h.RequireAuth(h.UploadFileHandler))
	mux.HandleFunc("GET /api/files", h.ListFilesHandler)
	mux.HandleFunc("GET /api/files/{id}", h.GetFileHandler)
	mux.HandleFunc("DELETE /api/files/{id}", h.RequireAuth(h.DeleteFileHandler))
	mux.HandleFunc("GET /api/download/{id}", h.DownloadFileHandler)

	// Retexture
	mux.HandleFunc("POST /api/retexture", h.RequireAPIKey(h.RetextureHandler))

	return utils.CORSMiddleware(utils.LatencyMiddleware(h.Log)(mux))
}
