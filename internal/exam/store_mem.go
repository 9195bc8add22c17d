package exam

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memoryStore keeps the full data model in maps. It backs tests and
// dev runs without a database; semantics match SQLStore.
type memoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	subjects map[int64]Subject
	question map[int64]Question
	exams    map[int64]Exam
	versions map[int64]ExamVersion
	mappings map[int64][]VersionQuestion // versionID -> rows
}

func NewInMemoryStore() Store {
	return &memoryStore{
		subjects: map[int64]Subject{},
		question: map[int64]Question{},
		exams:    map[int64]Exam{},
		versions: map[int64]ExamVersion{},
		mappings: map[int64][]VersionQuestion{},
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) CreateSubject(_ context.Context, name, code string) (Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Subject{ID: m.id(), Name: name, Code: code, CreatedAt: time.Now().Unix()}
	m.subjects[s.ID] = s
	return s, nil
}

func (m *memoryStore) ListSubjects(_ context.Context) ([]Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) GetSubject(_ context.Context, id int64) (Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subjects[id]
	if !ok {
		return Subject{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) CreateQuestion(_ context.Context, in QuestionInput) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	q := Question{
		ID: m.id(), SubjectID: in.SubjectID, UnitText: in.UnitText, Text: in.Text,
		MixChoices: in.MixChoices, Image: in.Image, Mark: in.Mark,
		CreatedBy: in.UserID, CreatedAt: now,
	}
	for i, c := range in.Choices {
		q.Choices = append(q.Choices, Choice{
			ID: m.id(), QuestionID: q.ID, Content: c.Content,
			IsCorrect: c.IsCorrect, Position: i + 1, CreatedAt: now,
		})
	}
	m.question[q.ID] = q
	return q, nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id int64) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.question[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) GetChoicesForQuestion(_ context.Context, questionID int64) ([]Choice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.question[questionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]Choice, len(q.Choices))
	copy(out, q.Choices)
	return out, nil
}

func (m *memoryStore) ListQuestions(_ context.Context, subjectID int64) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.question {
		if subjectID == 0 || q.SubjectID == subjectID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) UpdateQuestion(_ context.Context, id int64, in QuestionInput) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.question[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	now := time.Now().Unix()
	q.UnitText, q.Text, q.MixChoices, q.Image, q.Mark = in.UnitText, in.Text, in.MixChoices, in.Image, in.Mark
	q.UpdatedBy, q.UpdatedAt = in.UserID, now
	q.Choices = nil
	for i, c := range in.Choices {
		q.Choices = append(q.Choices, Choice{
			ID: m.id(), QuestionID: q.ID, Content: c.Content,
			IsCorrect: c.IsCorrect, Position: i + 1, CreatedAt: now,
		})
	}
	m.question[id] = q
	return q, nil
}

func (m *memoryStore) DeleteQuestion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.question[id]; !ok {
		return ErrNotFound
	}
	for _, rows := range m.mappings {
		for _, vq := range rows {
			if vq.QuestionID == id {
				return ErrQuestionInUse
			}
		}
	}
	delete(m.question, id)
	return nil
}

func (m *memoryStore) QuestionTextExists(_ context.Context, subjectID int64, text string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, q := range m.question {
		if q.SubjectID == subjectID && q.Text == text {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) CreateExam(ctx context.Context, in ExamInput) (Exam, error) {
	sub, err := m.GetSubject(ctx, in.SubjectID)
	if err != nil {
		return Exam{}, err
	}
	code, err := m.NextExamCode(ctx, in.SubjectID, sub.Code)
	if err != nil {
		return Exam{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := Exam{
		ID: m.id(), SubjectID: in.SubjectID, Code: code, Title: in.Title,
		DurationMinutes: in.DurationMinutes, NumQuestions: in.NumQuestions,
		GeneratedBy: in.GeneratedBy, CreatedAt: time.Now().Unix(),
	}
	m.exams[e.ID] = e
	return e, nil
}

func (m *memoryStore) GetExam(ctx context.Context, id int64) (Exam, error) {
	m.mu.RLock()
	e, ok := m.exams[id]
	m.mu.RUnlock()
	if !ok {
		return Exam{}, ErrNotFound
	}
	vs, err := m.ListExamVersions(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	e.Versions = vs
	return e, nil
}

func (m *memoryStore) ListExams(_ context.Context) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Exam
	for _, e := range m.exams {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) NextExamCode(_ context.Context, subjectID int64, subjectCode string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.exams {
		if e.SubjectID == subjectID {
			n++
		}
	}
	return fmt.Sprintf("%s-%03d", subjectCode, n+1), nil
}

func (m *memoryStore) InsertExamVersion(_ context.Context, examID int64, versionCode string, seed int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return 0, ErrNotFound
	}
	v := ExamVersion{
		ID: m.id(), ExamID: examID, VersionCode: versionCode,
		ShuffleSeed: seed, IsActive: true, CreatedAt: time.Now().Unix(),
	}
	m.versions[v.ID] = v
	return v.ID, nil
}

func (m *memoryStore) InsertVersionQuestionMapping(_ context.Context, versionID, questionID int64, choiceOrderJSON string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.versions[versionID]; !ok {
		return ErrNotFound
	}
	m.mappings[versionID] = append(m.mappings[versionID], VersionQuestion{
		ID: m.id(), ExamVersionID: versionID, QuestionID: questionID, ChoiceOrder: choiceOrderJSON,
	})
	return nil
}

func (m *memoryStore) GetMaxVersionCode(_ context.Context, examID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	maxCode := 0
	for _, v := range m.versions {
		if v.ExamID != examID {
			continue
		}
		n := 0
		fmt.Sscanf(v.VersionCode, "%d", &n)
		if n > maxCode {
			maxCode = n
		}
	}
	return maxCode, nil
}

func (m *memoryStore) GetExamVersion(_ context.Context, versionID int64) (ExamVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.versions[versionID]
	if !ok {
		return ExamVersion{}, ErrNotFound
	}
	v.Questions = append([]VersionQuestion(nil), m.mappings[versionID]...)
	return v, nil
}

func (m *memoryStore) ListExamVersions(_ context.Context, examID int64) ([]ExamVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ExamVersion
	for _, v := range m.versions {
		if v.ExamID == examID {
			v.Questions = append([]VersionQuestion(nil), m.mappings[v.ID]...)
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionCode < out[j].VersionCode })
	return out, nil
}
