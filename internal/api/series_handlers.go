package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/casadosescritores/escritores-go/internal/export"
	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/slug"
	"github.com/casadosescritores/escritores-go/internal/storage"
	"github.com/casadosescritores/escritores-go/internal/store"
)

// resolveSeriesID recovers a series identifier from the path, accepting
// both slugged and legacy bare-UUID segments.
func resolveSeriesID(r *http.Request, param string) string {
	return slug.ParseID(chi.URLParam(r, param))
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	opts := store.ListSeriesOptions{
		Genre:   r.URL.Query().Get("genre"),
		Search:  r.URL.Query().Get("search"),
		Page:    page,
		PerPage: perPage,
	}

	list, total, err := s.store.ListSeries(opts)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve series")
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	RespondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	id := resolveSeriesID(r, "seriesSlug")
	series, err := s.store.GetSeriesDetail(id)
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleListSeriesChapters(w http.ResponseWriter, r *http.Request) {
	id := resolveSeriesID(r, "seriesSlug")
	if _, err := s.store.GetSeriesByID(id); err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}
	chapters, err := s.store.ListChaptersBySeries(id, false)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve chapters")
		return
	}
	RespondWithJSON(w, http.StatusOK, chapters)
}

// handleSeriesView bumps the view counter. Best-effort from the caller's
// point of view: failures are logged but the response is always 204 for an
// existing row.
func (s *Server) handleSeriesView(w http.ResponseWriter, r *http.Request) {
	id := resolveSeriesID(r, "seriesSlug")
	if err := s.store.IncrementSeriesViews(id); err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMySeries(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	list, _, err := s.store.ListSeries(store.ListSeriesOptions{AuthorID: profile.ID, PerPage: 100})
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve series")
		return
	}
	RespondWithJSON(w, http.StatusOK, list)
}

type seriesPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	var payload seriesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	series, err := s.store.CreateSeries(profile.ID, payload.Title, payload.Description, payload.Genre, payload.Tags)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create series")
		return
	}
	s.app.Sitemap().Invalidate()
	RespondWithJSON(w, http.StatusCreated, series)
}

// authorizeSeries looks up the series and applies the ownership gate.
func (s *Server) authorizeSeries(r *http.Request, param string) (*models.Series, error) {
	id := slug.ParseID(chi.URLParam(r, param))
	series, err := s.store.GetSeriesByID(id)
	if err != nil {
		return nil, err
	}
	profile := getProfileFromContext(r)
	actorID := ""
	if profile != nil {
		actorID = profile.ID
	}
	if err := gate.Authorize(actorID, series.AuthorID); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}

	var payload seriesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Title == "" {
		RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	if err := s.store.UpdateSeries(series.ID, payload.Title, payload.Description, payload.Genre, payload.Tags); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update series")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}

	// Children are deleted with the parent in one transaction; any failure
	// aborts the whole delete.
	if err := s.store.DeleteSeries(series.ID); err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}
	s.app.Sitemap().Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}
	if err := s.store.SetSeriesCompleted(series.ID, true); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to mark series complete")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUploadSeriesCover(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}

	data, err := readUpload(r, "cover")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := s.app.Bucket().Save(storage.KindCover, data)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Could not process image")
		return
	}
	if err := s.store.UpdateSeriesCoverURL(series.ID, url); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update cover")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"cover_url": url})
}

func (s *Server) handleExportSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.authorizeSeries(r, "seriesID")
	if err != nil {
		respondStoreError(w, err, "Series not found")
		return
	}

	chapters, err := s.store.ListChaptersBySeries(series.ID, true)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to load chapters")
		return
	}

	filename := slug.Normalize(series.Title)
	if filename == "" {
		filename = series.ID
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".zip"))
	if err := export.WriteSeriesZip(r.Context(), w, series, chapters); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("Series export failed for %s: %v", series.ID, err)
	}
}
