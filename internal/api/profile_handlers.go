package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/models"
)

// publicProfile is the payload served on the public profile endpoint. The
// social counts are always present, zero included.
type publicProfile struct {
	*models.Profile
	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`
}

// handleGetProfile serves the public profile page data: the profile plus
// follower/following counts.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfileByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err, "Profile not found")
		return
	}

	followers, following, err := s.store.CountFollowers(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	RespondWithJSON(w, http.StatusOK, publicProfile{
		Profile:        profile,
		FollowerCount:  followers,
		FollowingCount: following,
	})
}
