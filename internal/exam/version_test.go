package exam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSeed(seed int64) func() int64 {
	return func() int64 { return seed }
}

func seedQuestion(t *testing.T, store Store, subjectID int64, mix bool, numChoices int) Question {
	t.Helper()
	in := QuestionInput{
		SubjectID:  subjectID,
		Text:       fmt.Sprintf("question with %d choices", numChoices),
		MixChoices: mix,
		Mark:       1,
		UserID:     1,
	}
	for i := 0; i < numChoices; i++ {
		in.Choices = append(in.Choices, ChoiceInput{
			Content:   fmt.Sprintf("choice %d", i+1),
			IsCorrect: i == 0,
		})
	}
	q, err := store.CreateQuestion(context.Background(), in)
	require.NoError(t, err)
	return q
}

func seedExam(t *testing.T, store Store) (Subject, Exam) {
	t.Helper()
	ctx := context.Background()
	sub, err := store.CreateSubject(ctx, "Computer Networks", "CN")
	require.NoError(t, err)
	e, err := store.CreateExam(ctx, ExamInput{
		SubjectID: sub.ID, Title: "Midterm", DurationMinutes: 60, NumQuestions: 1, GeneratedBy: 1,
	})
	require.NoError(t, err)
	return sub, e
}

func orderOf(t *testing.T, vq VersionQuestion) []int64 {
	t.Helper()
	var ids []int64
	require.NoError(t, json.Unmarshal([]byte(vq.ChoiceOrder), &ids))
	return ids
}

func TestCreateVersionCodesIncrement(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, true, 4)

	gen := NewGenerator(store)
	v1, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
	require.NoError(t, err)
	v2, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
	require.NoError(t, err)

	assert.Equal(t, "001", v1.Version.VersionCode)
	assert.Equal(t, "002", v2.Version.VersionCode)
	assert.True(t, v1.Version.IsActive)
}

func TestCreateVersionShuffleIsDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func(seed int64) []int64 {
		store := NewInMemoryStore()
		sub, e := seedExam(t, store)
		q := seedQuestion(t, store, sub.ID, true, 10)

		gen := NewGenerator(store)
		gen.seedFn = fixedSeed(seed)
		res, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
		require.NoError(t, err)
		require.Empty(t, res.Errors)
		require.Len(t, res.Version.Questions, 1)
		return orderOf(t, res.Version.Questions[0])
	}

	first := run(42)
	second := run(42)
	assert.Equal(t, first, second, "same seed must reproduce the same order")

	other := run(43)
	assert.NotEqual(t, first, other, "a different seed should give a different order")
}

func TestCreateVersionShuffleDiffersPerQuestion(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q1 := seedQuestion(t, store, sub.ID, true, 10)
	q2 := seedQuestion(t, store, sub.ID, true, 10)

	gen := NewGenerator(store)
	gen.seedFn = fixedSeed(7)
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q1.ID, q2.ID})
	require.NoError(t, err)
	require.Len(t, res.Version.Questions, 2)

	// compare permutation shapes: position of the i-th original choice
	o1 := orderOf(t, res.Version.Questions[0])
	o2 := orderOf(t, res.Version.Questions[1])
	p1 := make([]int64, len(o1))
	p2 := make([]int64, len(o2))
	for i := range o1 {
		p1[i] = o1[i] - q1.Choices[0].ID
		p2[i] = o2[i] - q2.Choices[0].ID
	}
	assert.NotEqual(t, p1, p2)
}

func TestCreateVersionKeepsOrderWhenMixDisabled(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, false, 4)

	gen := NewGenerator(store)
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
	require.NoError(t, err)
	require.Len(t, res.Version.Questions, 1)

	want := make([]int64, len(q.Choices))
	for i, c := range q.Choices {
		want[i] = c.ID
	}
	assert.Equal(t, want, orderOf(t, res.Version.Questions[0]))
}

func TestCreateVersionReportsMissingQuestions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, true, 4)

	gen := NewGenerator(store)
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID, 9999})
	require.NoError(t, err)

	assert.Len(t, res.Version.Questions, 1)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "question 9999")
}

// mappingFailStore fails the order write for one question id.
type mappingFailStore struct {
	Store
	failQuestionID int64
}

func (s *mappingFailStore) InsertVersionQuestionMapping(ctx context.Context, versionID, questionID int64, choiceOrderJSON string) error {
	if questionID == s.failQuestionID {
		return errors.New("disk full")
	}
	return s.Store.InsertVersionQuestionMapping(ctx, versionID, questionID, choiceOrderJSON)
}

func TestCreateVersionSurvivesMappingFailure(t *testing.T) {
	ctx := context.Background()
	base := NewInMemoryStore()
	sub, e := seedExam(t, base)
	q1 := seedQuestion(t, base, sub.ID, true, 4)
	q2 := seedQuestion(t, base, sub.ID, true, 4)

	gen := NewGenerator(&mappingFailStore{Store: base, failQuestionID: q1.ID})
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q1.ID, q2.ID})
	require.NoError(t, err)

	require.Len(t, res.Version.Questions, 1)
	assert.Equal(t, q2.ID, res.Version.Questions[0].QuestionID)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], fmt.Sprintf("question %d", q1.ID))
}

func TestShuffledViewRelettersChoices(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, true, 4)

	gen := NewGenerator(store)
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
	require.NoError(t, err)

	view, err := gen.ShuffledView(ctx, res.Version.ID)
	require.NoError(t, err)
	require.Len(t, view, 1)

	vq := view[0]
	assert.Equal(t, q.Text, vq.QuestionText)
	require.Len(t, vq.Choices, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{
		vq.Choices[0].Letter, vq.Choices[1].Letter, vq.Choices[2].Letter, vq.Choices[3].Letter,
	})

	// the stored order drives the content sequence
	order := orderOf(t, res.Version.Questions[0])
	byID := map[int64]Choice{}
	for _, c := range q.Choices {
		byID[c.ID] = c
	}
	correct := 0
	for i, id := range order {
		assert.Equal(t, byID[id].Content, vq.Choices[i].Content)
		if vq.Choices[i].IsCorrect {
			correct++
		}
	}
	assert.Equal(t, 1, correct)
}

func TestShuffledViewSkipsDeletedChoice(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, false, 3)

	gen := NewGenerator(store)
	res, err := gen.CreateVersion(ctx, e.ID, []int64{q.ID})
	require.NoError(t, err)

	// add a second mapping whose order references a choice id that does
	// not exist; the view must skip it and re-letter the survivors
	order := orderOf(t, res.Version.Questions[0])
	order = append(order, 9999)
	raw, err := json.Marshal(order)
	require.NoError(t, err)
	require.NoError(t, store.InsertVersionQuestionMapping(ctx, res.Version.ID, q.ID, string(raw)))

	view, err := gen.ShuffledView(ctx, res.Version.ID)
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Len(t, view[1].Choices, 3)
	assert.Equal(t, "c", view[1].Choices[2].Letter)
}

func TestShuffledViewFallsBackOnBadOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, e := seedExam(t, store)
	q := seedQuestion(t, store, sub.ID, false, 3)

	vID, err := store.InsertExamVersion(ctx, e.ID, "001", 1)
	require.NoError(t, err)
	require.NoError(t, store.InsertVersionQuestionMapping(ctx, vID, q.ID, "not json"))

	view, err := NewGenerator(store).ShuffledView(ctx, vID)
	require.NoError(t, err)
	require.Len(t, view, 1)

	require.Len(t, view[0].Choices, 3)
	for i, c := range q.Choices {
		assert.Equal(t, c.Content, view[0].Choices[i].Content)
	}
}

func TestShuffledViewUnknownVersion(t *testing.T) {
	store := NewInMemoryStore()
	_, err := NewGenerator(store).ShuffledView(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
