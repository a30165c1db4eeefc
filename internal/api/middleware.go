package api

// This file contains the middleware for handling authentication and role-based authorization.

import (
	"context"
	"net/http"

	"github.com/casadosescritores/escritores-go/internal/models"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const profileContextKey = contextKey("profile")

// AuthMiddleware is a middleware that verifies a user's session.
// If the session is valid, it retrieves the profile from the database
// and injects it into the request's context for downstream handlers to use.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_token")
		if err != nil {
			// If no cookie is present, the user is unauthorized.
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: No session token")
			return
		}

		profile, err := s.store.GetProfileFromSession(cookie.Value)
		if err != nil {
			// If the token is invalid or expired, the user is unauthorized.
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: Invalid session")
			return
		}

		// Add the profile to the request context.
		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		// Call the next handler in the chain with the new context.
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnlyMiddleware is a middleware that ensures only users with the 'admin' role can access a route.
// It must be chained *after* the AuthMiddleware.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := getProfileFromContext(r)

		// This should theoretically not happen if AuthMiddleware is used first, but it's a safe check.
		if profile == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if profile.Role != models.RoleAdmin {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getProfileFromContext is a helper function to safely retrieve the profile from the request context.
// It returns nil if no profile is found in the context.
func getProfileFromContext(r *http.Request) *models.Profile {
	profile, ok := r.Context().Value(profileContextKey).(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
