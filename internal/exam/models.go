package exam

type Subject struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	CreatedAt int64  `json:"created_at"`
}

// Choice belongs to a question; Position is 1-based and contiguous in the
// stored order. Exactly one choice per question carries IsCorrect, enforced
// at write time.
type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"is_correct"`
	Position   int    `json:"position"`
	CreatedAt  int64  `json:"created_at"`
}

type Question struct {
	ID         int64    `json:"id"`
	SubjectID  int64    `json:"subject_id"`
	UnitText   string   `json:"unit_text"`
	Text       string   `json:"question"`
	MixChoices bool     `json:"mix_choices"`
	Image      string   `json:"image,omitempty"`
	Mark       float64  `json:"mark"`
	CreatedBy  int64    `json:"created_by,omitempty"`
	CreatedAt  int64    `json:"created_at"`
	UpdatedBy  int64    `json:"updated_by,omitempty"`
	UpdatedAt  int64    `json:"updated_at,omitempty"`
	Choices    []Choice `json:"choices,omitempty"`
}

type Exam struct {
	ID              int64         `json:"id"`
	SubjectID       int64         `json:"subject_id"`
	Code            string        `json:"code"`
	Title           string        `json:"title"`
	DurationMinutes int           `json:"duration_minutes"`
	NumQuestions    int           `json:"num_questions"`
	GeneratedBy     int64         `json:"generated_by,omitempty"`
	CreatedAt       int64         `json:"created_at"`
	Versions        []ExamVersion `json:"versions,omitempty"`
}

// ExamVersion is one concrete rendering of an exam. ShuffleSeed is drawn
// once at creation and stored forever; every per-question permutation is
// derivable from it, so the persisted choice order is a cache, never a
// second source of truth.
type ExamVersion struct {
	ID          int64             `json:"id"`
	ExamID      int64             `json:"exam_id"`
	VersionCode string            `json:"version_code"`
	ShuffleSeed int64             `json:"shuffle_seed"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   int64             `json:"created_at"`
	Questions   []VersionQuestion `json:"questions,omitempty"`
}

// VersionQuestion pins one question into a version together with the
// permuted choice-id order, persisted as a JSON array of choice ids.
type VersionQuestion struct {
	ID            int64  `json:"id"`
	ExamVersionID int64  `json:"exam_version_id"`
	QuestionID    int64  `json:"question_id"`
	ChoiceOrder   string `json:"choice_order_json"`
}

// ViewChoice and ViewQuestion form the shuffled read model served for one
// version. Letters are reassigned positionally from the shuffled order; the
// answer key is IsCorrect on the choice itself.
type ViewChoice struct {
	Letter    string `json:"letter"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

type ViewQuestion struct {
	QuestionText string       `json:"question_text"`
	Unit         string       `json:"unit"`
	Mark         float64      `json:"mark"`
	Image        string       `json:"image,omitempty"`
	Choices      []ViewChoice `json:"choices"`
}
