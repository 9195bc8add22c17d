package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exam-bank/exambank/internal/docx"
)

func parseParagraphs(lines ...string) *Parser {
	p := New()
	p.ParseDocument(&docx.Document{Paragraphs: lines})
	return p
}

func TestParseSingleQuestion(t *testing.T) {
	p := parseParagraphs(
		"QN=1",
		"What is 2+2?",
		"a. 3",
		"b. 4",
		"ANSWER: B",
		"MARK: 1.0",
	)
	qs := p.Questions()
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "What is 2+2?", q.Text)
	assert.Equal(t, "b", q.Answer)
	assert.Equal(t, 1.0, q.Mark)
	assert.True(t, q.MixChoices)

	require.Len(t, q.Choices, 2)
	assert.False(t, q.Choices[0].IsCorrect)
	assert.True(t, q.Choices[1].IsCorrect)
	assert.Equal(t, "4", q.Choices[1].Content)
}

func TestParseFileMetadata(t *testing.T) {
	p := parseParagraphs(
		"Subject: Information Systems",
		"Lecturer: Jane Doe",
		"QN=1",
		"Pick one.",
		"a. yes",
		"b. no",
		"ANSWER: A",
	)
	meta := p.Metadata()
	assert.Equal(t, "Information Systems", meta.Subject)
	assert.Equal(t, "Jane Doe", meta.Lecturer)
	require.Len(t, p.Questions(), 1)
}

func TestParseQuestionFields(t *testing.T) {
	p := parseParagraphs(
		"QN=3",
		"Which layer routes packets?",
		"a. transport",
		"b. network",
		"c. physical",
		"ANSWER: B",
		"MARK: 2.5",
		"UNIT: Chapter 4",
		"MIX CHOICES: No",
	)
	qs := p.Questions()
	require.Len(t, qs, 1)
	q := qs[0]
	assert.Equal(t, 2.5, q.Mark)
	assert.Equal(t, "Chapter 4", q.Unit)
	assert.False(t, q.MixChoices)
}

func TestParseMultiLineQuestionText(t *testing.T) {
	p := parseParagraphs(
		"QN=1",
		"Consider the following statement:",
		"all swans are white.",
		"a. true",
		"b. false",
		"ANSWER: B",
	)
	qs := p.Questions()
	require.Len(t, qs, 1)
	assert.Equal(t, "Consider the following statement: all swans are white.", qs[0].Text)
}

func TestParseImageToken(t *testing.T) {
	p := parseParagraphs(
		"QN=1",
		"What does the diagram show? [file:diagram.png]",
		"a. a graph",
		"b. a tree",
		"ANSWER: B",
	)
	qs := p.Questions()
	require.Len(t, qs, 1)
	assert.Equal(t, "diagram.png", qs[0].Image)
	assert.Equal(t, "What does the diagram show?", qs[0].Text)
}

func TestParseDropsQuestionWithoutAnswer(t *testing.T) {
	p := parseParagraphs(
		"Subject: Networks",
		"QN=1",
		"No answer here.",
		"a. x",
		"b. y",
		"QN=2",
		"Complete question.",
		"a. x",
		"b. y",
		"ANSWER: A",
	)
	qs := p.Questions()
	require.Len(t, qs, 1)
	assert.Equal(t, 2, qs[0].Number)

	report := p.Validate()
	assert.False(t, report.Valid)
	assert.Contains(t, report.CriticalErrors, "Question 1: missing answer")
}

func TestParseDropsAnswerNotInChoices(t *testing.T) {
	p := parseParagraphs(
		"QN=1",
		"Mismatch.",
		"a. x",
		"b. y",
		"ANSWER: D",
	)
	assert.Empty(t, p.Questions())
	report := p.Validate()
	assert.Contains(t, report.CriticalErrors, "Question 1: answer 'd' not found in choices")
}

func TestParseDropsTooFewChoices(t *testing.T) {
	p := parseParagraphs(
		"QN=1",
		"Lonely choice.",
		"a. only",
		"ANSWER: A",
	)
	assert.Empty(t, p.Questions())
}

func TestParseTableMode(t *testing.T) {
	p := New()
	p.ParseDocument(&docx.Document{Tables: [][][]string{{
		{"QN=1", "What is 2+2? [file:sum.png]"},
		{"a.", "3"},
		{"b.", "4"},
		{"c.", "5"},
		{"ANSWER:", "b"},
		{"MARK:", "2"},
		{"UNIT:", "Arithmetic"},
		{"MIX CHOICES:", "Yes"},
	}}})
	qs := p.Questions()
	require.Len(t, qs, 1)
	q := qs[0]
	assert.Equal(t, "What is 2+2?", q.Text)
	assert.Equal(t, "sum.png", q.Image)
	assert.Equal(t, "Arithmetic", q.Unit)
	assert.Equal(t, 2.0, q.Mark)
	assert.True(t, q.MixChoices)
	require.Len(t, q.Choices, 3)
	assert.True(t, q.Choices[1].IsCorrect)
}

func TestParseTableMultipleQuestions(t *testing.T) {
	p := New()
	p.ParseDocument(&docx.Document{Tables: [][][]string{{
		{"QN=1", "First?"},
		{"a.", "x"},
		{"b.", "y"},
		{"ANSWER:", "A"},
		{"QN=2", "Second?"},
		{"a.", "x"},
		{"b.", "y"},
		{"ANSWER:", "B"},
	}}})
	qs := p.Questions()
	require.Len(t, qs, 2)
	assert.Equal(t, "a", qs[0].Answer)
	assert.Equal(t, "b", qs[1].Answer)
}

func TestParseMixedLayout(t *testing.T) {
	p := New()
	p.ParseDocument(&docx.Document{
		Paragraphs: []string{
			"Subject: Networks",
			"QN=1", "Paragraph question?", "a. x", "b. y", "ANSWER: A",
		},
		Tables: [][][]string{{
			{"QN=2", "Table question?"},
			{"a.", "x"},
			{"b.", "y"},
			{"ANSWER:", "B"},
		}},
	})
	require.Len(t, p.Questions(), 2)
	assert.True(t, p.Validate().Valid)
}

func TestParserResetBetweenDocuments(t *testing.T) {
	p := New()
	p.ParseDocument(&docx.Document{Paragraphs: []string{
		"QN=1", "One?", "a. x", "b. y", "ANSWER: A",
	}})
	require.Len(t, p.Questions(), 1)

	p.ParseDocument(&docx.Document{Paragraphs: []string{"nothing here"}})
	assert.Empty(t, p.Questions())
}
