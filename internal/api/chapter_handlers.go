package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "chapterSlug"))
	chapter, author, err := s.store.GetChapterDetail(id)
	if err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"chapter": chapter,
		"author":  author,
	})
}

func (s *Server) handleChapterView(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "chapterSlug"))
	if err := s.store.IncrementChapterViews(id); err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type chapterPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}

	var payload chapterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	profile := getProfileFromContext(r)
	chapter, err := s.store.CreateChapter(series.ID, profile.ID, payload.Title, payload.Body)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create chapter")
		return
	}
	RespondWithJSON(w, http.StatusCreated, chapter)
}

// authorizeChapter looks up the chapter and applies the ownership gate.
func (s *Server) authorizeChapter(r *http.Request, param string) (*models.Chapter, error) {
	id := slug.ParseID(chi.URLParam(r, param))
	chapter, err := s.store.GetChapterByID(id)
	if err != nil {
		return nil, err
	}
	profile := getProfileFromContext(r)
	actorID := ""
	if profile != nil {
		actorID = profile.ID
	}
	if err := gate.Authorize(actorID, chapter.AuthorID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := s.authorizeChapter(r, "chapterID")
	if err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}

	var payload chapterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	if err := s.store.UpdateChapter(chapter.ID, payload.Title, payload.Body); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update chapter")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := s.authorizeChapter(r, "chapterID")
	if err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	if err := s.store.DeleteChapter(chapter.ID); err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublishChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := s.authorizeChapter(r, "chapterID")
	if err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	if err := s.store.SetChapterPublished(chapter.ID, true); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to publish chapter")
		return
	}
	s.app.Sitemap().Invalidate()

	// Tell the author's followers. Best-effort: a notification failure
	// never fails the publish.
	if !chapter.IsPublished {
		go s.notifyFollowersOfChapter(chapter)
	}
	w.WriteHeader(http.StatusOK)
}

// notifyFollowersOfChapter creates a notification row per follower and
// pushes it over the websocket hub.
func (s *Server) notifyFollowersOfChapter(chapter *models.Chapter) {
	series, err := s.store.GetSeriesByID(chapter.SeriesID)
	if err != nil {
		log.Printf("Could not load series %s for chapter notification: %v", chapter.SeriesID, err)
		return
	}
	author, err := s.store.GetProfileByID(chapter.AuthorID)
	if err != nil {
		log.Printf("Could not load author %s for chapter notification: %v", chapter.AuthorID, err)
		return
	}
	followers, err := s.store.ListFollowers(chapter.AuthorID)
	if err != nil {
		log.Printf("Could not list followers of %s: %v", chapter.AuthorID, err)
		return
	}

	message := fmt.Sprintf("%s published a new chapter of %s: %s", author.Username, series.Title, chapter.Title)
	for _, follower := range followers {
		n, err := s.store.CreateNotification(follower.ID, author.ID, models.NotificationNewChapter, message)
		if err != nil {
			log.Printf("Failed to create notification for %s: %v", follower.ID, err)
			continue
		}
		s.app.WsHub().NotifyUser(follower.ID, n)
	}
}
