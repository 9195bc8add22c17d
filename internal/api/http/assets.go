package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/exam-bank/exambank/internal/storage"
)

// Imported documents reference images by [file:<name>] tokens; the images
// themselves are uploaded here and stored under a fresh uuid key.
func UploadAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		ext := strings.ToLower(filepath.Ext(hdr.Filename))
		key := uuid.NewString() + ext
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key, "filename": hdr.Filename})
	}
}

func GetAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, err := bs.Get(chi.URLParam(r, "key"))
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		_, _ = io.Copy(w, rc)
	}
}

func DeleteAssetHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := bs.Delete(chi.URLParam(r, "key")); err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
