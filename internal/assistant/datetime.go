package assistant

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateTimeMatch is a temporal expression found in an utterance.
type DateTimeMatch struct {
	Time time.Time
	// Text is the exact substring that matched, used for span exclusion
	// by the other extractors.
	Text string
}

// dateParser wraps the natural-language date parser. Only the first
// temporal expression in an utterance is used; multiple mentions in one
// turn are an accepted limitation.
type dateParser struct {
	parser *when.Parser
}

func newDateParser() *dateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &dateParser{parser: w}
}

// Extract finds the first temporal expression in the utterance, resolved
// relative to base with a forward-dating bias: an expression that would
// land in the past rolls forward day by day to its nearest future
// occurrence.
func (p *dateParser) Extract(utterance string, base time.Time) (DateTimeMatch, bool) {
	result, err := p.parser.Parse(utterance, base)
	if err != nil || result == nil {
		return DateTimeMatch{}, false
	}

	t := result.Time
	for i := 0; i < 7 && t.Before(base); i++ {
		t = t.Add(24 * time.Hour)
	}

	return DateTimeMatch{Time: t, Text: result.Text}, true
}
