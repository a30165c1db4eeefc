package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/models"
)

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	follower := getProfileFromContext(r)
	followed, err := s.store.GetProfileByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err, "Profile not found")
		return
	}
	if followed.ID == follower.ID {
		RespondWithError(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	already, err := s.store.IsFollowing(follower.ID, followed.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to follow")
		return
	}
	if err := s.store.CreateFollow(follower.ID, followed.ID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to follow")
		return
	}

	// Notify on the first follow only; re-follows are idempotent and
	// silent. Notification failures are logged, never surfaced.
	if !already {
		message := fmt.Sprintf("%s started following you", follower.Username)
		n, err := s.store.CreateNotification(followed.ID, follower.ID, models.NotificationFollow, message)
		if err != nil {
			log.Printf("Failed to create follow notification for %s: %v", followed.ID, err)
		} else {
			s.app.WsHub().NotifyUser(followed.ID, n)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	follower := getProfileFromContext(r)
	followed, err := s.store.GetProfileByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err, "Profile not found")
		return
	}
	if err := s.store.DeleteFollow(follower.ID, followed.ID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to unfollow")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfileByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err, "Profile not found")
		return
	}
	followers, err := s.store.ListFollowers(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve followers")
		return
	}
	RespondWithJSON(w, http.StatusOK, followers)
}

func (s *Server) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfileByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondStoreError(w, err, "Profile not found")
		return
	}
	following, err := s.store.ListFollowing(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve following")
		return
	}
	RespondWithJSON(w, http.StatusOK, following)
}
