package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/auth"
	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/models"
)

func validRole(role string) bool {
	return role == models.RoleUser || role == models.RoleModerator || role == models.RoleAdmin
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	RespondWithJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Username == "" || payload.Password == "" || !validRole(payload.Role) {
		RespondWithError(w, http.StatusBadRequest, "Username, password, and a valid role are required")
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	profile, err := s.store.CreateProfile(payload.Username, passwordHash, payload.Role)
	if err != nil {
		// Could be a unique constraint violation
		RespondWithError(w, http.StatusConflict, "Username already exists")
		return
	}
	RespondWithJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var payload struct {
		Role     string `json:"role"`
		Password string `json:"password,omitempty"` // Password is optional
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !validRole(payload.Role) {
		RespondWithError(w, http.StatusBadRequest, "A valid role is required")
		return
	}

	if _, err := s.store.GetProfileByID(userID); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	if err := s.store.UpdateProfileRole(userID, payload.Role); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	// Update password if provided
	if payload.Password != "" {
		passwordHash, err := auth.HashPassword(payload.Password)
		if err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := s.store.UpdateProfilePassword(userID, passwordHash); err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	actor := getProfileFromContext(r)

	target, err := s.store.GetProfileByID(userID)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	// Admins may not delete other admins or themselves.
	if err := gate.AuthorizeAdminDelete(actor, target); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	if err := s.store.DeleteProfile(userID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
