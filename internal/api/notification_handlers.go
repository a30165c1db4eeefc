package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := s.store.ListNotifications(profile.ID, unreadOnly)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}
	RespondWithJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	id := chi.URLParam(r, "notificationID")
	if err := s.store.MarkNotificationRead(id, profile.ID); err != nil {
		respondStoreError(w, err, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	if err := s.store.MarkAllNotificationsRead(profile.ID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}
	w.WriteHeader(http.StatusOK)
}
