package assistant

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of one utterance.
type Intent string

const (
	IntentHelp       Intent = "help"
	IntentList       Intent = "list"
	IntentCancel     Intent = "cancel"
	IntentReschedule Intent = "reschedule"
	IntentBook       Intent = "book"
	IntentGreeting   Intent = "greeting"
	IntentFallback   Intent = "fallback"
	// IntentFollowUp covers turns that fill in a pending draft.
	IntentFollowUp Intent = "follow_up"
	// IntentAbort covers "never mind" turns that drop a pending draft.
	IntentAbort Intent = "abort"
	IntentEmpty Intent = "empty"
)

// Cues match on word boundaries so fragments inside longer words never
// trigger a flow ("exchange" is not a reschedule, "listen" is not a list).
var (
	helpCuePattern       = cuePattern("help")
	listCuePattern       = cuePattern("show", "list", "review")
	cancelCuePattern     = cuePattern("cancel", "remove", "delete", "clear")
	rescheduleCuePattern = cuePattern("reschedule", "move", "shift", "push back", "change")
	abortCuePattern      = cuePattern("cancel", "never mind", "nevermind", "stop")

	meetingNounPattern = regexp.MustCompile(`(?i)\b(?:call|meeting|appointment|chat|catch[ -]up)s?\b`)
	bookingVerbPattern = cuePattern("book", "schedule", "set up", "setup", "arrange", "organize", "plan", "make", "need", "want", "create")

	greetingPattern = regexp.MustCompile(`(?i)\b(hi|hello|hey|good morning|good afternoon|good evening)\b`)
	withClause      = regexp.MustCompile(`(?i)\bwith\s+\w+`)
	temporalHint    = regexp.MustCompile(`(?i)\b(today|tomorrow|tonight|morning|afternoon|evening|next|am|pm)\b|\d:\d`)
)

// cuePattern builds a whole-word alternation over the given cues.
func cuePattern(cues ...string) *regexp.Regexp {
	quoted := make([]string, len(cues))
	for i, cue := range cues {
		quoted[i] = regexp.QuoteMeta(cue)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func isHelpRequest(lower string) bool {
	return helpCuePattern.MatchString(lower)
}

func isListRequest(lower string) bool {
	if strings.Contains(lower, "upcoming calls") {
		return true
	}
	if listCuePattern.MatchString(lower) {
		if strings.Contains(lower, "appointment") || strings.Contains(lower, "schedule") {
			return true
		}
	}
	return strings.Contains(lower, "what") && strings.Contains(lower, "appointment")
}

func isCancelRequest(lower string) bool {
	return cancelCuePattern.MatchString(lower)
}

func isRescheduleRequest(lower string) bool {
	return rescheduleCuePattern.MatchString(lower)
}

// isDialogueAbort reports whether a mid-dialogue utterance asks to drop
// the pending draft.
func isDialogueAbort(lower string) bool {
	return abortCuePattern.MatchString(lower)
}

func isGreeting(lower string) bool {
	return greetingPattern.MatchString(lower)
}

// hasSchedulingSignal reports whether the utterance reads like a booking
// request: a meeting-type noun plus a booking verb, a "with" clause, or a
// temporal hint.
func hasSchedulingSignal(lower string) bool {
	if !meetingNounPattern.MatchString(lower) {
		return false
	}
	if bookingVerbPattern.MatchString(lower) {
		return true
	}
	if withClause.MatchString(lower) {
		return true
	}
	return temporalHint.MatchString(lower)
}
