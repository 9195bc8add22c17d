package http

import (
	"fmt"
	"io"
	"net/http"

	auth "github.com/exam-bank/exambank/internal/auth/middleware"
	"github.com/exam-bank/exambank/internal/docx/parser"
	"github.com/exam-bank/exambank/internal/exam"
)

type importResponse struct {
	Success           bool                    `json:"success"`
	Message           string                  `json:"message"`
	TotalQuestions    int                     `json:"total_questions"`
	ImportedQuestions int                     `json:"imported_questions"`
	SkippedQuestions  []string                `json:"skipped_questions,omitempty"`
	Errors            []string                `json:"errors,omitempty"`
	Validation        parser.Report           `json:"validation"`
	Questions         []parser.ParsedQuestion `json:"questions"`
}

// POST /import/preview (multipart: file=questions.docx)
// Parses and validates without touching the database.
func PreviewDocxHandler(maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := parseUpload(w, r, maxBytes)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"questions":  p.Questions(),
			"metadata":   p.Metadata(),
			"validation": p.Validate(),
		})
	}
}

// POST /import/docx (multipart: file=questions.docx, form: subject_id)
// Critical validation findings block the import; per-question insert
// failures and duplicates are reported but do not abort the batch.
func ImportDocxHandler(store exam.Store, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := parseUpload(w, r, maxBytes)
		if !ok {
			return
		}
		subjectID := parseInt64Default(r.FormValue("subject_id"), 0)
		if subjectID == 0 {
			http.Error(w, "subject_id required", http.StatusBadRequest)
			return
		}
		if _, err := store.GetSubject(r.Context(), subjectID); err != nil {
			storeError(w, err)
			return
		}

		questions := p.Questions()
		report := p.Validate()
		resp := importResponse{
			TotalQuestions: len(questions),
			Validation:     report,
			Questions:      questions,
		}
		if !report.Valid {
			resp.Message = "Validation failed"
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}

		userID := auth.UserIDFromContext(r.Context())
		for _, q := range questions {
			exists, err := store.QuestionTextExists(r.Context(), subjectID, q.Text)
			if err != nil {
				resp.Errors = append(resp.Errors, fmt.Sprintf("Question %d: %v", q.Number, err))
				continue
			}
			if exists {
				resp.SkippedQuestions = append(resp.SkippedQuestions,
					fmt.Sprintf("Question %d: already exists for this subject", q.Number))
				continue
			}
			if _, err := store.CreateQuestion(r.Context(), parser.ToQuestionInput(subjectID, userID, q)); err != nil {
				resp.Errors = append(resp.Errors, fmt.Sprintf("Question %d: %v", q.Number, err))
				continue
			}
			resp.ImportedQuestions++
		}

		resp.Success = resp.ImportedQuestions > 0
		resp.Message = fmt.Sprintf("Imported %d out of %d questions", resp.ImportedQuestions, resp.TotalQuestions)
		writeJSON(w, http.StatusOK, resp)
	}
}

// parseUpload reads the multipart document and runs the parser over it.
// Replies with an error itself when ok is false.
func parseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*parser.Parser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	f, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	p := parser.New()
	if _, _, err := p.Parse(b); err != nil {
		http.Error(w, "unreadable document: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return p, true
}
