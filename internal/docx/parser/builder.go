package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	imageTokenRe  = regexp.MustCompile(`\[file:([^\]]+)\]`)
	leadingNumRe  = regexp.MustCompile(`^[\d.]+`)
	choiceLetters = "abcd"
)

// questionBuilder accumulates one question at a time from a stream of
// labeled values. Both extraction modes feed the same builder, so the
// save-time validation is identical for paragraph and table layouts.
// Start implies a flush of whatever is in progress; the caller flushes
// once more at end of input.
type questionBuilder struct {
	cur     *ParsedQuestion
	choices []ParsedChoice

	emit func(ParsedQuestion)
	drop func(number int, reason string)
}

func (b *questionBuilder) Start(number int) {
	b.Flush()
	b.cur = &ParsedQuestion{
		Number:     number,
		Mark:       1.0,
		MixChoices: true,
	}
	b.choices = nil
}

// Text appends free question text, extracting an embedded image token if
// one is present.
func (b *questionBuilder) Text(s string) {
	if b.cur == nil {
		return
	}
	if m := imageTokenRe.FindStringSubmatch(s); m != nil {
		b.cur.Image = m[1]
		s = strings.TrimSpace(imageTokenRe.ReplaceAllString(s, ""))
	}
	if s == "" {
		return
	}
	if b.cur.Text != "" {
		b.cur.Text += " " + s
	} else {
		b.cur.Text = s
	}
}

func (b *questionBuilder) Choice(letter, content string) {
	if b.cur == nil {
		return
	}
	b.choices = append(b.choices, ParsedChoice{
		Letter:  strings.ToLower(letter),
		Content: strings.TrimSpace(content),
	})
}

func (b *questionBuilder) Answer(value string) {
	if b.cur == nil {
		return
	}
	v := strings.ToLower(strings.TrimSpace(value))
	if v != "" && strings.ContainsRune(choiceLetters, rune(v[0])) {
		b.cur.Answer = v[:1]
	}
}

// Mark keeps the previous value (default 1.0) when the field does not start
// with a number. Non-positive values are kept; the validation report flags
// them as non-critical.
func (b *questionBuilder) Mark(value string) {
	if b.cur == nil {
		return
	}
	num := leadingNumRe.FindString(strings.TrimSpace(value))
	if num == "" {
		return
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return
	}
	b.cur.Mark = f
}

func (b *questionBuilder) Unit(value string) {
	if b.cur == nil {
		return
	}
	b.cur.Unit = strings.TrimSpace(value)
}

func (b *questionBuilder) MixChoices(value string) {
	if b.cur == nil {
		return
	}
	b.cur.MixChoices = strings.EqualFold(strings.TrimSpace(value), "yes")
}

// Flush validates the question under construction and either emits it or
// drops it with a reason. A question is emitted only when it has text, at
// least two choices with non-empty content, and an answer letter matching
// one of its choices.
func (b *questionBuilder) Flush() {
	if b.cur == nil {
		return
	}
	q := *b.cur
	q.Choices = b.choices
	b.cur = nil
	b.choices = nil

	if strings.TrimSpace(q.Text) == "" {
		b.drop(q.Number, "missing question text")
		return
	}
	if len(q.Choices) < 2 {
		b.drop(q.Number, "needs at least 2 choices")
		return
	}
	if q.Answer == "" {
		b.drop(q.Number, "missing answer")
		return
	}
	var empty []string
	for _, c := range q.Choices {
		if strings.TrimSpace(c.Content) == "" {
			empty = append(empty, strings.ToUpper(c.Letter))
		}
	}
	if len(empty) > 0 {
		b.drop(q.Number, "empty choice(s): "+strings.Join(empty, ", "))
		return
	}
	matched := false
	for i := range q.Choices {
		if q.Choices[i].Letter == q.Answer {
			q.Choices[i].IsCorrect = true
			matched = true
			break
		}
	}
	if !matched {
		b.drop(q.Number, "answer '"+q.Answer+"' not found in choices")
		return
	}
	b.emit(q)
}
