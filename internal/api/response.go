// Helper functions for sending standardized JSON responses and mapping
// store/gate errors onto the HTTP status taxonomy.

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/casadosescritores/escritores-go/internal/gate"
	"github.com/casadosescritores/escritores-go/internal/store"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondStoreError maps a store or gate error to a response. Sentinel
// not-found errors become 404, authorization errors become 401/403, and
// anything else is a 500 with a generic message: internal detail is logged
// server-side, never sent to the client.
func respondStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrSeriesNotFound),
		errors.Is(err, store.ErrChapterNotFound),
		errors.Is(err, store.ErrStoryNotFound),
		errors.Is(err, store.ErrCommentNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		RespondWithError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, gate.ErrUnauthenticated):
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, gate.ErrForbidden):
		RespondWithError(w, http.StatusForbidden, "You do not have permission to do that")
	default:
		log.Printf("Internal error: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
