package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/casadosescritores/escritores-go/internal/storage"
)

// Uploads above this size are rejected before decoding.
const maxUploadBytes = 10 << 20 // 10 MiB

// readUpload pulls the named file out of a multipart form, bounded by
// maxUploadBytes.
func readUpload(r *http.Request, field string) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("invalid multipart form")
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New("missing file field: " + field)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if len(data) > maxUploadBytes {
		return nil, errors.New("upload too large")
	}
	return data, nil
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)

	data, err := readUpload(r, "avatar")
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := s.app.Bucket().Save(storage.KindAvatar, data)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Could not process image")
		return
	}

	if err := s.store.UpdateProfile(profile.ID, profile.Bio, url, profile.WebsiteURL, profile.TwitterHandle); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update avatar")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
