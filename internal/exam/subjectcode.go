package exam

import "strings"

// filler words skipped when deriving a subject code from its name
var codeStopWords = map[string]bool{
	"of": true, "and": true, "the": true, "to": true, "for": true,
	"in": true, "an": true, "a": true,
}

// SubjectCode derives a short code from a subject name by taking the first
// letter of each significant word, capped at 4 characters.
// "Information Systems" -> "IS".
func SubjectCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "SUB"
	}
	var letters []rune
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if codeStopWords[w] {
			continue
		}
		letters = append(letters, []rune(w)[0])
	}
	if len(letters) == 0 {
		n := len(name)
		if n > 3 {
			n = 3
		}
		return strings.ToUpper(name[:n])
	}
	if len(letters) > 4 {
		letters = letters[:4]
	}
	return strings.ToUpper(string(letters))
}
