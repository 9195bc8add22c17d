package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCleanFile(t *testing.T) {
	p := &Parser{
		meta: FileMetadata{Subject: "Networks"},
		questions: []ParsedQuestion{{
			Number: 1, Text: "Q?", Answer: "a", Mark: 1, Unit: "Ch 1",
			Choices: []ParsedChoice{{Letter: "a", Content: "x", IsCorrect: true}, {Letter: "b", Content: "y"}},
		}},
	}
	r := p.Validate()
	assert.True(t, r.Valid)
	assert.Empty(t, r.CriticalErrors)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 1, r.TotalQuestions)
}

func TestValidateMissingSubject(t *testing.T) {
	p := &Parser{questions: []ParsedQuestion{{
		Number: 1, Text: "Q?", Answer: "a", Mark: 1, Unit: "u",
		Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "b", Content: "y"}},
	}}}
	r := p.Validate()
	assert.False(t, r.Valid)
	assert.Contains(t, r.CriticalErrors, "Missing Subject information in file")
}

func TestValidateEmptyFile(t *testing.T) {
	p := &Parser{meta: FileMetadata{Subject: "Networks"}}
	r := p.Validate()
	assert.False(t, r.Valid)
	assert.Contains(t, r.CriticalErrors, "No questions found in file")
	assert.Equal(t, 0, r.TotalQuestions)
}

func TestValidateDuplicateChoiceLetters(t *testing.T) {
	p := &Parser{
		meta: FileMetadata{Subject: "Networks"},
		questions: []ParsedQuestion{{
			Number: 2, Text: "Q?", Answer: "a", Mark: 1, Unit: "u",
			Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "a", Content: "y"}},
		}},
	}
	r := p.Validate()
	assert.Contains(t, r.CriticalErrors, "Question 2: Duplicate choice letters")
}

func TestValidateEmptyChoices(t *testing.T) {
	p := &Parser{
		meta: FileMetadata{Subject: "Networks"},
		questions: []ParsedQuestion{{
			Number: 3, Text: "Q?", Answer: "a", Mark: 1, Unit: "u",
			Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "b"}, {Letter: "c", Content: "  "}},
		}},
	}
	r := p.Validate()
	assert.Contains(t, r.CriticalErrors, "Question 3: Empty choices B, C")
}

func TestValidateBadMarkIsError(t *testing.T) {
	p := &Parser{
		meta: FileMetadata{Subject: "Networks"},
		questions: []ParsedQuestion{{
			Number: 1, Text: "Q?", Answer: "a", Mark: 0, Unit: "u",
			Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "b", Content: "y"}},
		}},
	}
	r := p.Validate()
	assert.True(t, r.Valid)
	assert.Contains(t, r.Errors, "Question 1: Invalid mark (must be > 0)")
}

func TestValidateMissingUnitIsWarning(t *testing.T) {
	p := &Parser{
		meta: FileMetadata{Subject: "Networks"},
		questions: []ParsedQuestion{{
			Number: 1, Text: "Q?", Answer: "a", Mark: 1,
			Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "b", Content: "y"}},
		}},
	}
	r := p.Validate()
	assert.True(t, r.Valid)
	assert.Contains(t, r.Warnings, "Question 1: No unit specified")
}

func TestValidateDroppedQuestionsAreCritical(t *testing.T) {
	p := &Parser{
		meta:    FileMetadata{Subject: "Networks"},
		dropped: []string{"Question 4: missing answer"},
		questions: []ParsedQuestion{{
			Number: 5, Text: "Q?", Answer: "a", Mark: 1, Unit: "u",
			Choices: []ParsedChoice{{Letter: "a", Content: "x"}, {Letter: "b", Content: "y"}},
		}},
	}
	r := p.Validate()
	assert.False(t, r.Valid)
	assert.Contains(t, r.CriticalErrors, "Question 4: missing answer")
}
