package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/exam-bank/exambank/internal/exam"
)

func ListSubjectsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := store.ListSubjects(r.Context())
		if err != nil {
			storeError(w, err)
			return
		}
		if subjects == nil {
			subjects = []exam.Subject{}
		}
		writeJSON(w, http.StatusOK, subjects)
	}
}

func GetSubjectHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "subjectID")
		if err != nil {
			http.Error(w, "bad subject id", http.StatusBadRequest)
			return
		}
		sub, err := store.GetSubject(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// POST /subjects  { "name": "Information Systems" }
// The subject code is derived from the name.
func CreateSubjectHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		sub, err := store.CreateSubject(r.Context(), name, exam.SubjectCode(name))
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}
