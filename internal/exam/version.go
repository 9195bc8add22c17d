package exam

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
)

// Generator creates exam versions and reconstructs their shuffled views.
// Randomness enters exactly once per version, through seedFn; everything
// downstream is derived deterministically from the stored seed.
type Generator struct {
	store  Store
	seedFn func() int64
}

func NewGenerator(store Store) *Generator {
	return &Generator{store: store, seedFn: func() int64 { return rand.Int63() }}
}

// CreateVersionResult carries the new version plus per-question failures.
// A version with fewer questions than requested is a reported outcome, not
// an error.
type CreateVersionResult struct {
	Version ExamVersion `json:"version"`
	Errors  []string    `json:"errors,omitempty"`
}

// CreateVersion allocates the next version code for the exam, draws a fresh
// shuffle seed and persists one choice-order mapping per question. Questions
// whose lookup or write fails are skipped and reported in Errors.
func (g *Generator) CreateVersion(ctx context.Context, examID int64, questionIDs []int64) (CreateVersionResult, error) {
	maxCode, err := g.store.GetMaxVersionCode(ctx, examID)
	if err != nil {
		return CreateVersionResult{}, fmt.Errorf("next version code: %w", err)
	}
	code := fmt.Sprintf("%03d", maxCode+1)
	seed := g.seedFn()

	versionID, err := g.store.InsertExamVersion(ctx, examID, code, seed)
	if err != nil {
		return CreateVersionResult{}, fmt.Errorf("insert exam version: %w", err)
	}

	res := CreateVersionResult{Version: ExamVersion{
		ID: versionID, ExamID: examID, VersionCode: code, ShuffleSeed: seed, IsActive: true,
	}}

	for _, qid := range questionIDs {
		q, err := g.store.GetQuestion(ctx, qid)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("question %d: %v", qid, err))
			continue
		}
		choices, err := g.store.GetChoicesForQuestion(ctx, qid)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("question %d: choices: %v", qid, err))
			continue
		}
		if len(choices) == 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("question %d: has no choices", qid))
			continue
		}

		ids := make([]int64, len(choices))
		for i, c := range choices {
			ids[i] = c.ID
		}
		if q.MixChoices {
			ids = shuffleChoiceIDs(seed, qid, ids)
		}
		orderJSON, err := json.Marshal(ids)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("question %d: encode order: %v", qid, err))
			continue
		}
		if err := g.store.InsertVersionQuestionMapping(ctx, versionID, qid, string(orderJSON)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("question %d: insert mapping: %v", qid, err))
			continue
		}
		res.Version.Questions = append(res.Version.Questions, VersionQuestion{
			ExamVersionID: versionID, QuestionID: qid, ChoiceOrder: string(orderJSON),
		})
	}
	return res, nil
}

// shuffleChoiceIDs permutes ids with a generator seeded from seed+questionID.
// The same (version, question) pair therefore always shuffles identically,
// while permutations differ across questions and across versions.
func shuffleChoiceIDs(seed, questionID int64, ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	rnd := rand.New(rand.NewSource(seed + questionID))
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ShuffledView rebuilds the per-version question list with choices in the
// persisted order, re-lettered positionally as a, b, c, ... A choice id that
// no longer exists is skipped; an unreadable order sequence falls back to
// position order with a logged warning rather than failing the view.
func (g *Generator) ShuffledView(ctx context.Context, versionID int64) ([]ViewQuestion, error) {
	v, err := g.store.GetExamVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	out := make([]ViewQuestion, 0, len(v.Questions))
	for _, vq := range v.Questions {
		q, err := g.store.GetQuestion(ctx, vq.QuestionID)
		if err != nil {
			log.Printf("exam version %d: question %d unavailable: %v", versionID, vq.QuestionID, err)
			continue
		}
		choices, err := g.store.GetChoicesForQuestion(ctx, vq.QuestionID)
		if err != nil {
			log.Printf("exam version %d: question %d choices unavailable: %v", versionID, vq.QuestionID, err)
			continue
		}

		var order []int64
		if err := json.Unmarshal([]byte(vq.ChoiceOrder), &order); err != nil {
			log.Printf("exam version %d: question %d: unreadable choice order %q, falling back to position order", versionID, vq.QuestionID, vq.ChoiceOrder)
			order = order[:0]
			for _, c := range choices {
				order = append(order, c.ID)
			}
		}

		byID := make(map[int64]Choice, len(choices))
		for _, c := range choices {
			byID[c.ID] = c
		}

		view := ViewQuestion{
			QuestionText: q.Text,
			Unit:         q.UnitText,
			Mark:         q.Mark,
			Image:        q.Image,
			Choices:      []ViewChoice{},
		}
		for _, id := range order {
			c, ok := byID[id]
			if !ok {
				// choice deleted after the version was created
				continue
			}
			view.Choices = append(view.Choices, ViewChoice{
				Letter:    string(rune('a' + len(view.Choices))),
				Content:   c.Content,
				IsCorrect: c.IsCorrect,
			})
		}
		out = append(out, view)
	}
	return out, nil
}
