package assistant

import (
	"regexp"
	"strings"
)

// namePatterns are tried in order: "with <name>" first, then "call <name>".
// A name runs until a boundary keyword, sentence punctuation, or the end
// of the utterance.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwith\s+(.+?)(?:\s+(?:about|regarding|at|on)\b|[.,!?;:]|$)`),
	regexp.MustCompile(`(?i)\bcall\s+(.+?)(?:\s+(?:about|regarding|at|on)\b|[.,!?;:]|$)`),
}

// roleNouns are meeting-type words that never belong in an attendee name.
var roleNouns = map[string]struct{}{
	"call":        {},
	"meeting":     {},
	"appointment": {},
	"demo":        {},
	"chat":        {},
}

var nonNameChars = regexp.MustCompile(`[^a-zA-Z\s.'-]`)

// NameMatch is an attendee name found in an utterance.
type NameMatch struct {
	Name string
	// Text is the raw captured substring before normalization.
	Text string
}

// extractName finds an attendee name in the utterance, ignoring any
// substrings already consumed by other extractors.
func extractName(utterance string, exclude []string) (NameMatch, bool) {
	text := removeSpans(utterance, exclude)
	for _, pat := range namePatterns {
		m := pat.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if name, ok := formatName(m[1]); ok {
			return NameMatch{Name: name, Text: m[1]}, true
		}
	}
	return NameMatch{}, false
}

// formatName normalizes a raw name fragment: role nouns and non-name
// characters are stripped, whitespace collapsed, and each word
// title-cased. Returns false when nothing name-like survives.
func formatName(raw string) (string, bool) {
	cleaned := nonNameChars.ReplaceAllString(raw, " ")
	words := strings.Fields(cleaned)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := roleNouns[strings.ToLower(w)]; skip {
			continue
		}
		out = append(out, titleCase(w))
	}
	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, " "), true
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// removeSpans blanks out each excluded substring so downstream patterns
// cannot re-consume text that already matched.
func removeSpans(utterance string, exclude []string) string {
	for _, span := range exclude {
		if span == "" {
			continue
		}
		utterance = strings.Replace(utterance, span, " ", 1)
	}
	return utterance
}
