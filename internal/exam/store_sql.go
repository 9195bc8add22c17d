package exam

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// insertID runs an INSERT and reports the new row id. Postgres has no
// LastInsertId, so the statement gets a RETURNING clause there.
func (s *SQLStore) insertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

/* ---------------- subjects ---------------- */

func (s *SQLStore) CreateSubject(ctx context.Context, name, code string) (Subject, error) {
	now := time.Now().Unix()
	id, err := s.insertID(ctx, `INSERT INTO subjects (name,code,created_at) VALUES ($1,$2,$3)`, name, code, now)
	if err != nil {
		return Subject{}, err
	}
	return Subject{ID: id, Name: name, Code: code, CreatedAt: now}, nil
}

func (s *SQLStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,code,created_at FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Code, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetSubject(ctx context.Context, id int64) (Subject, error) {
	var sub Subject
	err := s.db.QueryRowContext(ctx, `SELECT id,name,code,created_at FROM subjects WHERE id=$1`, id).
		Scan(&sub.ID, &sub.Name, &sub.Code, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subject{}, ErrNotFound
	}
	return sub, err
}

/* ---------------- questions ---------------- */

func (s *SQLStore) CreateQuestion(ctx context.Context, in QuestionInput) (Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Question{}, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	qid, err := s.insertIDTx(ctx, tx,
		`INSERT INTO questions (subject_id,unit_text,question,mix_choices,image,mark,created_by,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		in.SubjectID, in.UnitText, in.Text, boolInt(in.MixChoices), nullString(in.Image), in.Mark, in.UserID, now)
	if err != nil {
		return Question{}, err
	}
	if err := insertChoicesTx(ctx, tx, qid, in.Choices, now); err != nil {
		return Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return Question{}, err
	}
	return s.GetQuestion(ctx, qid)
}

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	var q Question
	var image sql.NullString
	var updBy, updAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id,subject_id,unit_text,question,mix_choices,image,mark,created_by,created_at,updated_by,updated_at
		 FROM questions WHERE id=$1`, id).
		Scan(&q.ID, &q.SubjectID, &q.UnitText, &q.Text, &q.MixChoices, &image, &q.Mark, &q.CreatedBy, &q.CreatedAt, &updBy, &updAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}
	q.Image = image.String
	q.UpdatedBy = updBy.Int64
	q.UpdatedAt = updAt.Int64
	q.Choices, err = s.GetChoicesForQuestion(ctx, q.ID)
	return q, err
}

func (s *SQLStore) GetChoicesForQuestion(ctx context.Context, questionID int64) ([]Choice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,question_id,content,is_correct,position,created_at FROM choices
		 WHERE question_id=$1 ORDER BY position`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Choice
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Content, &c.IsCorrect, &c.Position, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListQuestions(ctx context.Context, subjectID int64) ([]Question, error) {
	query := `SELECT id,subject_id,unit_text,question,mix_choices,image,mark,created_by,created_at,updated_by,updated_at
		 FROM questions ORDER BY id`
	args := []interface{}{}
	if subjectID != 0 {
		query = `SELECT id,subject_id,unit_text,question,mix_choices,image,mark,created_by,created_at,updated_by,updated_at
		 FROM questions WHERE subject_id=$1 ORDER BY id`
		args = append(args, subjectID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		var image sql.NullString
		var updBy, updAt sql.NullInt64
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.UnitText, &q.Text, &q.MixChoices, &image, &q.Mark, &q.CreatedBy, &q.CreatedAt, &updBy, &updAt); err != nil {
			return nil, err
		}
		q.Image = image.String
		q.UpdatedBy = updBy.Int64
		q.UpdatedAt = updAt.Int64
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Choices, err = s.GetChoicesForQuestion(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateQuestion replaces the question row and its full choice set.
func (s *SQLStore) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (Question, error) {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return Question{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Question{}, err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	if _, err := tx.ExecContext(ctx,
		`UPDATE questions SET unit_text=$1, question=$2, mix_choices=$3, image=$4, mark=$5, updated_by=$6, updated_at=$7
		 WHERE id=$8`,
		in.UnitText, in.Text, boolInt(in.MixChoices), nullString(in.Image), in.Mark, in.UserID, now, id); err != nil {
		return Question{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE question_id=$1`, id); err != nil {
		return Question{}, err
	}
	if err := insertChoicesTx(ctx, tx, id, in.Choices, now); err != nil {
		return Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return Question{}, err
	}
	return s.GetQuestion(ctx, id)
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	var refs int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam_version_questions WHERE question_id=$1`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrQuestionInUse
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE question_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) QuestionTextExists(ctx context.Context, subjectID int64, text string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM questions WHERE subject_id=$1 AND question=$2 LIMIT 1`, subjectID, text).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

/* ---------------- exams ---------------- */

func (s *SQLStore) CreateExam(ctx context.Context, in ExamInput) (Exam, error) {
	sub, err := s.GetSubject(ctx, in.SubjectID)
	if err != nil {
		return Exam{}, err
	}
	code, err := s.NextExamCode(ctx, in.SubjectID, sub.Code)
	if err != nil {
		return Exam{}, err
	}
	now := time.Now().Unix()
	id, err := s.insertID(ctx,
		`INSERT INTO exams (subject_id,code,title,duration_minutes,num_questions,generated_by,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		in.SubjectID, code, in.Title, in.DurationMinutes, in.NumQuestions, in.GeneratedBy, now)
	if err != nil {
		return Exam{}, err
	}
	return Exam{
		ID: id, SubjectID: in.SubjectID, Code: code, Title: in.Title,
		DurationMinutes: in.DurationMinutes, NumQuestions: in.NumQuestions,
		GeneratedBy: in.GeneratedBy, CreatedAt: now,
	}, nil
}

func (s *SQLStore) GetExam(ctx context.Context, id int64) (Exam, error) {
	var e Exam
	err := s.db.QueryRowContext(ctx,
		`SELECT id,subject_id,code,title,duration_minutes,num_questions,generated_by,created_at
		 FROM exams WHERE id=$1`, id).
		Scan(&e.ID, &e.SubjectID, &e.Code, &e.Title, &e.DurationMinutes, &e.NumQuestions, &e.GeneratedBy, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Exam{}, ErrNotFound
	}
	if err != nil {
		return Exam{}, err
	}
	e.Versions, err = s.ListExamVersions(ctx, e.ID)
	return e, err
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,subject_id,code,title,duration_minutes,num_questions,generated_by,created_at
		 FROM exams ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		var e Exam
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.Code, &e.Title, &e.DurationMinutes, &e.NumQuestions, &e.GeneratedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NextExamCode allocates "{SUBJ}-001", "{SUBJ}-002", ... per subject.
func (s *SQLStore) NextExamCode(ctx context.Context, subjectID int64, subjectCode string) (string, error) {
	var last string
	err := s.db.QueryRowContext(ctx,
		`SELECT code FROM exams WHERE subject_id=$1 AND code LIKE $2 ORDER BY code DESC LIMIT 1`,
		subjectID, subjectCode+"-%").Scan(&last)
	n := 1
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", err
	default:
		parts := strings.Split(last, "-")
		if v, perr := strconv.Atoi(parts[len(parts)-1]); perr == nil {
			n = v + 1
		}
	}
	return fmt.Sprintf("%s-%03d", subjectCode, n), nil
}

/* ---------------- versions ---------------- */

func (s *SQLStore) InsertExamVersion(ctx context.Context, examID int64, versionCode string, seed int64) (int64, error) {
	return s.insertID(ctx,
		`INSERT INTO exam_versions (exam_id,version_code,shuffle_seed,is_active,created_at)
		 VALUES ($1,$2,$3,1,$4)`,
		examID, versionCode, seed, time.Now().Unix())
}

func (s *SQLStore) InsertVersionQuestionMapping(ctx context.Context, versionID, questionID int64, choiceOrderJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exam_version_questions (exam_version_id,question_id,choice_order_json) VALUES ($1,$2,$3)`,
		versionID, questionID, choiceOrderJSON)
	return err
}

func (s *SQLStore) GetMaxVersionCode(ctx context.Context, examID int64) (int, error) {
	var maxCode sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(CAST(version_code AS INTEGER)) FROM exam_versions WHERE exam_id=$1`, examID).Scan(&maxCode)
	if err != nil {
		return 0, err
	}
	return int(maxCode.Int64), nil
}

func (s *SQLStore) GetExamVersion(ctx context.Context, versionID int64) (ExamVersion, error) {
	var v ExamVersion
	err := s.db.QueryRowContext(ctx,
		`SELECT id,exam_id,version_code,shuffle_seed,is_active,created_at FROM exam_versions WHERE id=$1`, versionID).
		Scan(&v.ID, &v.ExamID, &v.VersionCode, &v.ShuffleSeed, &v.IsActive, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ExamVersion{}, ErrNotFound
	}
	if err != nil {
		return ExamVersion{}, err
	}
	v.Questions, err = s.versionQuestions(ctx, v.ID)
	return v, err
}

func (s *SQLStore) ListExamVersions(ctx context.Context, examID int64) ([]ExamVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,exam_id,version_code,shuffle_seed,is_active,created_at FROM exam_versions
		 WHERE exam_id=$1 ORDER BY version_code`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExamVersion
	for rows.Next() {
		var v ExamVersion
		if err := rows.Scan(&v.ID, &v.ExamID, &v.VersionCode, &v.ShuffleSeed, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Questions, err = s.versionQuestions(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLStore) versionQuestions(ctx context.Context, versionID int64) ([]VersionQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,exam_version_id,question_id,choice_order_json FROM exam_version_questions
		 WHERE exam_version_id=$1 ORDER BY id`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []VersionQuestion
	for rows.Next() {
		var vq VersionQuestion
		if err := rows.Scan(&vq.ID, &vq.ExamVersionID, &vq.QuestionID, &vq.ChoiceOrder); err != nil {
			return nil, err
		}
		out = append(out, vq)
	}
	return out, rows.Err()
}

/* ---------------- helpers ---------------- */

func (s *SQLStore) insertIDTx(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := tx.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertChoicesTx(ctx context.Context, tx *sql.Tx, questionID int64, choices []ChoiceInput, now int64) error {
	for i, c := range choices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO choices (question_id,content,is_correct,position,created_at) VALUES ($1,$2,$3,$4,$5)`,
			questionID, c.Content, boolInt(c.IsCorrect), i+1, now); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
