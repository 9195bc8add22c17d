package parser

// ParsedChoice is one answer option as it appeared in the source document.
type ParsedChoice struct {
	Letter    string `json:"letter"` // a-d
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// ParsedQuestion is the parser's per-question output. Number is the
// source-document order (QN=<n>), not a database identifier.
type ParsedQuestion struct {
	Number     int            `json:"question_number"`
	Text       string         `json:"question_text"`
	Choices    []ParsedChoice `json:"choices"`
	Answer     string         `json:"answer"` // lowercase letter of the correct choice
	Mark       float64        `json:"mark"`
	Unit       string         `json:"unit"`
	MixChoices bool           `json:"mix_choices"`
	Image      string         `json:"image,omitempty"` // filename from a [file:...] token
}

// FileMetadata is document-level metadata. Subject is required before an
// import may proceed; Lecturer is informational.
type FileMetadata struct {
	Subject  string `json:"subject"`
	Lecturer string `json:"lecturer"`
}
