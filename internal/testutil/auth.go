package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casadosescritores/escritores-go/internal/api"
	"github.com/casadosescritores/escritores-go/internal/auth"
)

// CreateProfile creates a profile with a properly hashed password and
// returns its ID.
func CreateProfile(t *testing.T, s *api.Server, username, password, role string) string {
	t.Helper()

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password for test user: %v", err)
	}
	profile, err := s.Store().CreateProfile(username, passwordHash, role)
	if err != nil {
		t.Fatalf("Failed to create test user '%s': %v", username, err)
	}
	return profile.ID
}

// GetAuthCookie creates a profile, logs it in, and returns a valid session cookie.
func GetAuthCookie(t *testing.T, s *api.Server, username, password, role string) *http.Cookie {
	t.Helper()

	CreateProfile(t, s, username, password, role)

	loginPayload := map[string]string{"username": username, "password": password}
	payloadBytes, _ := json.Marshal(loginPayload)
	req, _ := http.NewRequest("POST", "/api/users/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("Login failed within test helper for user '%s': got status %d, want 200", username, status)
	}

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}

	t.Fatal("Failed to get session cookie after successful login for test user")
	return nil
}

// CookieForUser creates a profile, logs in, and removes the profile again
// when the test finishes.
func CookieForUser(t *testing.T, server *api.Server, username, password, role string) *http.Cookie {
	t.Helper()
	cookie := GetAuthCookie(t, server, username, password, role)
	t.Cleanup(func() {
		profile, err := server.Store().GetProfileByUsername(username)
		if err == nil {
			server.Store().DeleteProfile(profile.ID)
		}
	})
	return cookie
}
