package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/slug"
)

func (s *Server) handleListStoryComments(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "storySlug"))
	if _, err := s.store.GetStoryDetail(id); err != nil {
		respondStoreError(w, err, "Story not found")
		return
	}
	comments, err := s.store.ListCommentsForStory(id)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve comments")
		return
	}
	RespondWithJSON(w, http.StatusOK, comments)
}

func (s *Server) handleListChapterComments(w http.ResponseWriter, r *http.Request) {
	id := slug.ParseID(chi.URLParam(r, "chapterSlug"))
	if _, _, err := s.store.GetChapterDetail(id); err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	comments, err := s.store.ListCommentsForChapter(id)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve comments")
		return
	}
	RespondWithJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	var payload struct {
		StoryID   string `json:"story_id"`
		ChapterID string `json:"chapter_id"`
		Body      string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Body == "" {
		RespondWithError(w, http.StatusBadRequest, "Comment body is required")
		return
	}
	if (payload.StoryID == "") == (payload.ChapterID == "") {
		RespondWithError(w, http.StatusBadRequest, "Comment must reference exactly one of story_id or chapter_id")
		return
	}

	if payload.StoryID != "" {
		// Commenting requires the parent to exist and be published.
		if _, err := s.store.GetStoryDetail(payload.StoryID); err != nil {
			respondStoreError(w, err, "Story not found")
			return
		}
		comment, err := s.store.CreateStoryComment(payload.StoryID, profile.ID, payload.Body)
		if err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to create comment")
			return
		}
		RespondWithJSON(w, http.StatusCreated, comment)
		return
	}

	if _, _, err := s.store.GetChapterDetail(payload.ChapterID); err != nil {
		respondStoreError(w, err, "Chapter not found")
		return
	}
	comment, err := s.store.CreateChapterComment(payload.ChapterID, profile.ID, payload.Body)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	RespondWithJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	id := chi.URLParam(r, "commentID")

	comment, err := s.store.GetCommentByID(id)
	if err != nil {
		respondStoreError(w, err, "Comment not found")
		return
	}

	// The comment author, moderators and admins may remove a comment.
	if err := gate.AuthorizeModeration(profile, comment.AuthorID); err != nil {
		respondStoreError(w, err, "Comment not found")
		return
	}

	if err := s.store.DeleteComment(id); err != nil {
		respondStoreError(w, err, "Comment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
