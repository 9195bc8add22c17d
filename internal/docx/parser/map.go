package parser

import "github.com/exam-bank/exambank/internal/exam"

// ToQuestionInput converts one parsed question into the store's write model.
// Choice positions follow document order; the is-correct flag set during
// parsing carries over unchanged.
func ToQuestionInput(subjectID, userID int64, q ParsedQuestion) exam.QuestionInput {
	in := exam.QuestionInput{
		SubjectID:  subjectID,
		UnitText:   q.Unit,
		Text:       q.Text,
		MixChoices: q.MixChoices,
		Image:      q.Image,
		Mark:       q.Mark,
		UserID:     userID,
	}
	for _, c := range q.Choices {
		in.Choices = append(in.Choices, exam.ChoiceInput{Content: c.Content, IsCorrect: c.IsCorrect})
	}
	return in
}
