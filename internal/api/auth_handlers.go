package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/casadosescritores/escritores-go/internal/auth"
	"github.com/casadosescritores/escritores-go/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !usernamePattern.MatchString(payload.Username) {
		RespondWithError(w, http.StatusBadRequest, "Username must be 3-30 characters: letters, digits, underscore")
		return
	}
	if len(payload.Password) < 8 {
		RespondWithError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	profile, err := s.store.CreateProfile(payload.Username, passwordHash, models.RoleUser)
	if err != nil {
		// Could be a unique constraint violation
		RespondWithError(w, http.StatusConflict, "Username already exists")
		return
	}

	token, err := s.store.CreateSession(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	setSessionCookie(w, r, token)
	RespondWithJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	profile, err := s.store.GetProfileByUsername(payload.Username)
	if err != nil {
		RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !auth.CheckPasswordHash(payload.Password, profile.PasswordHash) {
		RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.store.CreateSession(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	setSessionCookie(w, r, token)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("session_token")
	if err == nil {
		s.store.DeleteSession(cookie.Value)
	}

	// Expire the cookie on the client side
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Set secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	if profile == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	RespondWithJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	var payload struct {
		Bio           string `json:"bio"`
		WebsiteURL    string `json:"website_url"`
		TwitterHandle string `json:"twitter_handle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := s.store.UpdateProfile(profile.ID, payload.Bio, profile.AvatarURL, payload.WebsiteURL, payload.TwitterHandle); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	updated, err := s.store.GetProfileByID(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load updated profile")
		return
	}
	RespondWithJSON(w, http.StatusOK, updated)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Set secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
	})
}
