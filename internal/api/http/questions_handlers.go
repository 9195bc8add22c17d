package http

import (
	"encoding/json"
	"net/http"
	"strings"

	auth "github.com/exam-bank/exambank/internal/auth/middleware"
	"github.com/exam-bank/exambank/internal/exam"
)

// GET /questions?subject_id=N
func ListQuestionsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjectID := parseInt64Default(r.URL.Query().Get("subject_id"), 0)
		questions, err := store.ListQuestions(r.Context(), subjectID)
		if err != nil {
			storeError(w, err)
			return
		}
		if questions == nil {
			questions = []exam.Question{}
		}
		writeJSON(w, http.StatusOK, questions)
	}
}

func GetQuestionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "questionID")
		if err != nil {
			http.Error(w, "bad question id", http.StatusBadRequest)
			return
		}
		q, err := store.GetQuestion(r.Context(), id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func CreateQuestionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exam.QuestionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if msg := validateQuestionInput(in); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		in.UserID = auth.UserIDFromContext(r.Context())
		q, err := store.CreateQuestion(r.Context(), in)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /questions/{questionID} replaces the question and its whole choice set.
func UpdateQuestionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "questionID")
		if err != nil {
			http.Error(w, "bad question id", http.StatusBadRequest)
			return
		}
		var in exam.QuestionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if msg := validateQuestionInput(in); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		in.UserID = auth.UserIDFromContext(r.Context())
		q, err := store.UpdateQuestion(r.Context(), id, in)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /questions/{questionID}. Questions referenced by an exam version
// cannot be removed; that returns 409.
func DeleteQuestionHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "questionID")
		if err != nil {
			http.Error(w, "bad question id", http.StatusBadRequest)
			return
		}
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

// validateQuestionInput enforces the write-time invariants: 2-4 non-empty
// choices with exactly one marked correct.
func validateQuestionInput(in exam.QuestionInput) string {
	if strings.TrimSpace(in.Text) == "" {
		return "question text required"
	}
	if len(in.Choices) < 2 || len(in.Choices) > 4 {
		return "question needs 2 to 4 choices"
	}
	correct := 0
	for _, c := range in.Choices {
		if strings.TrimSpace(c.Content) == "" {
			return "choice content must not be empty"
		}
		if c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return "exactly one choice must be correct"
	}
	return ""
}
