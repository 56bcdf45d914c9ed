package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/repository"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents the payload for user registration
type RegisterRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ProfilePicture *string `json:"profile_picture"`
	Bio            string  `json:"bio"`
	Birthday       *string `json:"birthday"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler handles user registration
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Register API]")

	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	// Basic Validation
	if req.Name == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "name, email, and password are required", http.StatusBadRequest)
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to hash password: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		Role:           models.RoleUser,
		ProfilePicture: req.ProfilePicture,
		Bio:            req.Bio,
		Birthday:       req.Birthday,
	}
	if _, err := h.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			utils.RespondError(w, &logMessageBuilder, "email already registered", http.StatusConflict)
			return
		}
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if h.Mailer != nil {
		subject, text, html := utils.WelcomeEmail(user.Name)
		if err := h.Mailer.SendEmail(user.Name, user.Email, subject, text, html); err != nil {
			// The account exists either way; the email is a courtesy.
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send welcome email: %v", err))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, "User registered successfully")
	utils.RespondJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// LoginHandler handles user login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(h.Log, &logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("User not found: %s", req.Email))
			utils.RespondError(w, &logMessageBuilder, "invalid credentials", http.StatusUnauthorized)
			return
		}
		respondStoreError(w, &logMessageBuilder, err, "user")
		return
	}

	// Compare password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, "Invalid password")
		utils.RespondError(w, &logMessageBuilder, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate token: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Login successful")
	utils.RespondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// MeHandler returns the authenticated user.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, nil, "unauthorized", http.StatusUnauthorized)
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}
