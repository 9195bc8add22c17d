package exam

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrQuestionInUse blocks deletion of a question that an exam version
	// still references.
	ErrQuestionInUse = errors.New("question referenced by an exam version")
)

// ChoiceInput and QuestionInput are write models. Choice positions are
// assigned from slice order, 1-based.
type ChoiceInput struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	SubjectID  int64         `json:"subject_id"`
	UnitText   string        `json:"unit_text"`
	Text       string        `json:"question"`
	MixChoices bool          `json:"mix_choices"`
	Image      string        `json:"image,omitempty"`
	Mark       float64       `json:"mark"`
	UserID     int64         `json:"-"`
	Choices    []ChoiceInput `json:"choices"`
}

type ExamInput struct {
	SubjectID       int64  `json:"subject_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	NumQuestions    int    `json:"num_questions"`
	GeneratedBy     int64  `json:"-"`
}

// Store is the data-access surface the core depends on. The version
// generator needs only GetQuestion, GetChoicesForQuestion,
// InsertExamVersion, InsertVersionQuestionMapping, GetMaxVersionCode and
// GetExamVersion; the rest backs the HTTP surface.
type Store interface {
	CreateSubject(ctx context.Context, name, code string) (Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)

	CreateQuestion(ctx context.Context, in QuestionInput) (Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	GetChoicesForQuestion(ctx context.Context, questionID int64) ([]Choice, error) // position order
	ListQuestions(ctx context.Context, subjectID int64) ([]Question, error)
	UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	// QuestionTextExists backs duplicate detection on import.
	QuestionTextExists(ctx context.Context, subjectID int64, text string) (bool, error)

	CreateExam(ctx context.Context, in ExamInput) (Exam, error)
	GetExam(ctx context.Context, id int64) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
	NextExamCode(ctx context.Context, subjectID int64, subjectCode string) (string, error)

	InsertExamVersion(ctx context.Context, examID int64, versionCode string, seed int64) (int64, error)
	InsertVersionQuestionMapping(ctx context.Context, versionID, questionID int64, choiceOrderJSON string) error
	GetMaxVersionCode(ctx context.Context, examID int64) (int, error)
	GetExamVersion(ctx context.Context, versionID int64) (ExamVersion, error)
	ListExamVersions(ctx context.Context, examID int64) ([]ExamVersion, error)
}
