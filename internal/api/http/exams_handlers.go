package http

import (
	"encoding/json"
	"net/http"
	"strings"

	auth "github.com/exam-bank/exambank/internal/auth/middleware"
	"github.com/exam-bank/exambank/internal/exam"
)

func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exams, err := store.ListExams(r.Context())
		if err != nil {
			storeError(w, err)
			return
		}
		if exams == nil {
			exams = []exam.Exam{}
		}
		writeJSON(w, http.StatusOK, exams)
	}
}

func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "examID")
		if err != nil {
			http.Error(w, "bad exam id", http.StatusBadRequest)
			return
		}
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// POST /exams  { "subject_id": N, "title": ..., "duration_minutes": N,
// "question_ids": [...] }
// Creates the exam and its first version ("001") in one go.
func CreateExamHandler(store exam.Store, gen *exam.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubjectID       int64   `json:"subject_id"`
			Title           string  `json:"title"`
			DurationMinutes int     `json:"duration_minutes"`
			QuestionIDs     []int64 `json:"question_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if len(req.QuestionIDs) == 0 {
			http.Error(w, "question_ids required", http.StatusBadRequest)
			return
		}
		if req.DurationMinutes <= 0 {
			req.DurationMinutes = 60
		}

		e, err := store.CreateExam(r.Context(), exam.ExamInput{
			SubjectID:       req.SubjectID,
			Title:           strings.TrimSpace(req.Title),
			DurationMinutes: req.DurationMinutes,
			NumQuestions:    len(req.QuestionIDs),
			GeneratedBy:     auth.UserIDFromContext(r.Context()),
		})
		if err != nil {
			storeError(w, err)
			return
		}
		res, err := gen.CreateVersion(r.Context(), e.ID, req.QuestionIDs)
		if err != nil {
			storeError(w, err)
			return
		}
		e.Versions = []exam.ExamVersion{res.Version}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"exam":   e,
			"errors": res.Errors,
		})
	}
}

// POST /exams/{examID}/versions  { "question_ids": [...] }
func AddExamVersionHandler(store exam.Store, gen *exam.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID, err := idParam(r, "examID")
		if err != nil {
			http.Error(w, "bad exam id", http.StatusBadRequest)
			return
		}
		var req struct {
			QuestionIDs []int64 `json:"question_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(req.QuestionIDs) == 0 {
			http.Error(w, "question_ids required", http.StatusBadRequest)
			return
		}
		if _, err := store.GetExam(r.Context(), examID); err != nil {
			storeError(w, err)
			return
		}
		res, err := gen.CreateVersion(r.Context(), examID, req.QuestionIDs)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /versions/{versionID}
func GetExamVersionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "versionID")
		if err != nil {
			http.Error(w, "bad version id", http.StatusBadRequest)
			return
		}
		v, err := store.GetExamVersion(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// GET /versions/{versionID}/questions — the shuffled per-version view.
func ShuffledViewHandler(gen *exam.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "versionID")
		if err != nil {
			http.Error(w, "bad version id", http.StatusBadRequest)
			return
		}
		view, err := gen.ShuffledView(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
