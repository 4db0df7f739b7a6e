package assistant

import (
	"regexp"
	"strings"
	"unicode"
)

var notesPattern = regexp.MustCompile(`(?i)\b(?:about|regarding)\s+(.+?)(?:[.,!?;:]|$)`)

// NotesMatch is a free-text topic clause found in an utterance.
type NotesMatch struct {
	Notes string
	Text  string
}

// extractNotes finds an "about ..." or "regarding ..." clause, ignoring
// substrings already consumed by other extractors. Only the first letter
// is capitalized; the rest of the clause is kept verbatim.
func extractNotes(utterance string, exclude []string) (NotesMatch, bool) {
	text := removeSpans(utterance, exclude)
	m := notesPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return NotesMatch{}, false
	}
	notes := strings.TrimSpace(m[1])
	if notes == "" {
		return NotesMatch{}, false
	}
	return NotesMatch{Notes: capitalizeFirst(notes), Text: m[1]}, true
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
