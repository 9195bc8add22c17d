package parser

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/exam-bank/exambank/internal/docx"
)

var (
	subjectRe       = regexp.MustCompile(`^Subject:\s*(.+)`)
	lecturerRe      = regexp.MustCompile(`^Lecturer:\s*(.+)`)
	questionStartRe = regexp.MustCompile(`^QN=(\d+)`)
	choiceLineRe    = regexp.MustCompile(`^([a-d])\.\s+(.*)`)
	answerLineRe    = regexp.MustCompile(`^ANSWER:\s*([A-Da-d])\b`)
	markLineRe      = regexp.MustCompile(`^MARK:\s*(.*)`)
	unitLineRe      = regexp.MustCompile(`^UNIT:\s*(.*)`)
	mixLineRe       = regexp.MustCompile(`^MIX CHOICES:\s*(.*)`)
)

// Parser extracts multiple-choice questions from one document. It keeps the
// extraction result so Validate can be called afterwards; a Parser is scoped
// to a single Parse call and is not safe for concurrent reuse.
type Parser struct {
	questions []ParsedQuestion
	meta      FileMetadata

	// questions discarded during extraction, "Question <n>: <reason>".
	// They surface as critical findings in the validation report.
	dropped []string
}

func New() *Parser { return &Parser{} }

// Parse reads document bytes and extracts every recoverable question.
// Malformed questions are dropped with a logged reason; only unreadable
// document bytes return an error.
func (p *Parser) Parse(b []byte) ([]ParsedQuestion, FileMetadata, error) {
	doc, err := docx.Read(b)
	if err != nil {
		return nil, FileMetadata{}, err
	}
	p.ParseDocument(doc)
	return p.questions, p.meta, nil
}

// ParseDocument runs both extraction strategies over an already-read
// document: the paragraph state machine first, then the table walk.
func (p *Parser) ParseDocument(doc *docx.Document) {
	p.questions = nil
	p.meta = FileMetadata{}
	p.dropped = nil

	b := p.newBuilder()
	for _, text := range doc.Paragraphs {
		p.feedParagraph(b, strings.TrimSpace(text))
	}
	b.Flush()

	for _, table := range doc.Tables {
		p.parseTable(table)
	}
}

func (p *Parser) Questions() []ParsedQuestion { return p.questions }
func (p *Parser) Metadata() FileMetadata      { return p.meta }

func (p *Parser) newBuilder() *questionBuilder {
	return &questionBuilder{
		emit: func(q ParsedQuestion) { p.questions = append(p.questions, q) },
		drop: func(number int, reason string) {
			msg := "Question " + strconv.Itoa(number) + ": " + reason
			p.dropped = append(p.dropped, msg)
			log.Printf("docx parser: dropping question %d: %s", number, reason)
		},
	}
}

// feedParagraph classifies one text block. Order matters: file metadata
// wins over everything, a question marker forces a flush, and anything
// unrecognized is more question text.
func (p *Parser) feedParagraph(b *questionBuilder, text string) {
	if text == "" {
		return
	}
	if m := subjectRe.FindStringSubmatch(text); m != nil {
		p.meta.Subject = strings.TrimSpace(m[1])
		return
	}
	if m := lecturerRe.FindStringSubmatch(text); m != nil {
		p.meta.Lecturer = strings.TrimSpace(m[1])
		return
	}
	if m := questionStartRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		b.Start(n)
		return
	}
	if m := choiceLineRe.FindStringSubmatch(text); m != nil {
		b.Choice(m[1], m[2])
		return
	}
	if m := answerLineRe.FindStringSubmatch(text); m != nil {
		b.Answer(m[1])
		return
	}
	if m := markLineRe.FindStringSubmatch(text); m != nil {
		b.Mark(m[1])
		return
	}
	if m := unitLineRe.FindStringSubmatch(text); m != nil {
		b.Unit(m[1])
		return
	}
	if m := mixLineRe.FindStringSubmatch(text); m != nil {
		b.MixChoices(m[1])
		return
	}
	b.Text(text)
}

// parseTable walks a two-column layout: column 0 is the field label,
// column 1 the value. Field semantics are shared with paragraph mode
// through the builder.
func (p *Parser) parseTable(rows [][]string) {
	b := p.newBuilder()
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])

		if m := questionStartRe.FindStringSubmatch(label); m != nil {
			n, _ := strconv.Atoi(m[1])
			b.Start(n)
			b.Text(value)
			continue
		}
		switch label {
		case "a.", "b.", "c.", "d.":
			b.Choice(label[:1], value)
		case "ANSWER:":
			b.Answer(value)
		case "MARK:":
			b.Mark(value)
		case "UNIT:":
			b.Unit(value)
		case "MIX CHOICES:":
			b.MixChoices(value)
		}
	}
	b.Flush()
}
