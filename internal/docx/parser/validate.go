package parser

import (
	"fmt"
	"strings"
)

// Report is the two-tier validation result. Critical findings block any
// further use of the parse result; Errors are recorded but preview and
// import may continue; Warnings are cosmetic.
type Report struct {
	Valid          bool     `json:"valid"`
	CriticalErrors []string `json:"critical_errors"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	TotalQuestions int      `json:"total_questions"`
}

// Validate checks the extracted questions plus file metadata. Questions the
// parser dropped during extraction appear here as critical findings, so a
// caller sees why question numbers are missing from the output.
func (p *Parser) Validate() Report {
	r := Report{
		CriticalErrors: []string{},
		Errors:         []string{},
		Warnings:       []string{},
		TotalQuestions: len(p.questions),
	}

	if p.meta.Subject == "" {
		r.CriticalErrors = append(r.CriticalErrors, "Missing Subject information in file")
	}
	r.CriticalErrors = append(r.CriticalErrors, p.dropped...)

	if len(p.questions) == 0 {
		r.CriticalErrors = append(r.CriticalErrors, "No questions found in file")
		return r
	}

	for _, q := range p.questions {
		if strings.TrimSpace(q.Text) == "" {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Missing question text", q.Number))
		}
		if len(q.Choices) < 2 {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Need at least 2 choices", q.Number))
		}
		if q.Answer == "" {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Missing answer", q.Number))
		} else if !answerInChoices(q) {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Answer '%s' not found in choices", q.Number, q.Answer))
		}
		if dup := duplicateLetters(q.Choices); dup {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Duplicate choice letters", q.Number))
		}
		if empty := emptyChoiceLetters(q.Choices); len(empty) == 1 {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Empty choice %s", q.Number, empty[0]))
		} else if len(empty) > 1 {
			r.CriticalErrors = append(r.CriticalErrors, fmt.Sprintf("Question %d: Empty choices %s", q.Number, strings.Join(empty, ", ")))
		}

		if q.Mark <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("Question %d: Invalid mark (must be > 0)", q.Number))
		}
		if q.Unit == "" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("Question %d: No unit specified", q.Number))
		}
	}

	r.Valid = len(r.CriticalErrors) == 0
	return r
}

func answerInChoices(q ParsedQuestion) bool {
	for _, c := range q.Choices {
		if c.Letter == q.Answer {
			return true
		}
	}
	return false
}

func duplicateLetters(choices []ParsedChoice) bool {
	seen := map[string]bool{}
	for _, c := range choices {
		if seen[c.Letter] {
			return true
		}
		seen[c.Letter] = true
	}
	return false
}

func emptyChoiceLetters(choices []ParsedChoice) []string {
	var out []string
	for _, c := range choices {
		if strings.TrimSpace(c.Content) == "" {
			out = append(out, strings.ToUpper(c.Letter))
		}
	}
	return out
}
