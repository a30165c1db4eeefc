package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/slug"
	"github.com/casadosescritores/escritores-go/internal/store"
)

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	opts := store.ListStoriesOptions{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Page:     page,
		PerPage:  perPage,
	}

	list, total, err := s.store.ListStories(opts)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve stories")
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	RespondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "storySlug"))
	story, err := s.store.GetStoryDetail(id)
	if err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, story)
}

func (s *Server) handleStoryView(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "storySlug"))
	if err := s.store.IncrementStoryViews(id); err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	RespondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) handleListMyStories(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	list, err := s.store.ListStoriesByAuthor(profile.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve stories")
		return
	}
	RespondWithJSON(w, http.StatusOK, list)
}

type storyPayload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	var payload storyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	story, err := s.store.CreateStory(profile.ID, payload.Title, payload.Body, payload.Category)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create story")
		return
	}
	RespondWithJSON(w, http.StatusCreated, story)
}

// authorizeStory looks up the story and applies the ownership gate.
func (s *Server) authorizeStory(r *http.Request, param string) (string, error) {
	id := slug.ParseID(chi.URLParam(r, param))
	story, err := s.store.GetStoryByID(id)
	if err != nil {
		return "", err
	}
	profile := getProfileFromContext(r)
	actorID := ""
	if profile != nil {
		actorID = profile.ID
	}
	if err := gate.Authorize(actorID, story.AuthorID); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizeStory(r, "storyID")
	if err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}

	var payload storyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	if err := s.store.UpdateStory(id, payload.Title, payload.Body, payload.Category); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update story")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizeStory(r, "storyID")
	if err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	if err := s.store.DeleteStory(id); err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublishStory(w http.ResponseWriter, r *http.Request) {
	id, err := s.authorizeStory(r, "storyID")
	if err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	if err := s.store.SetStoryPublished(id, true); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to publish story")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusOK)
}
