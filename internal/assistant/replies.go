package assistant

import "fmt"

// Reply copy is deterministic so turns can be asserted exactly in tests
// and spoken consistently by the voice layer.
const (
	replyDidNotCatch = "Sorry, I didn't catch that. Could you say it again?"

	replyHelp = "Here's what I can do:\n" +
		"Book a call, e.g. \"Book a call with Sam tomorrow at 2pm\"\n" +
		"List your schedule, e.g. \"Show my appointments\"\n" +
		"Move a call, e.g. \"Reschedule my call with Sam to Friday\"\n" +
		"Cancel a call, e.g. \"Cancel my call with Sam\""

	replyGreeting = "Hi there! I can book, move, or cancel calls for you. What would you like to do?"

	replyFallback = "I can help you book, reschedule, cancel, or list your calls. " +
		"Try something like \"Book a call with Sam tomorrow at 2pm\"."

	replyEmptyCalendar = "Your calendar is wide open — no calls booked yet."

	replyListHeader = "Here's what you have coming up:"

	replyAskAttendee = "Who should I schedule the call with?"

	replyNothingBooked = "You don't have any calls booked right now."

	replyAmbiguousTarget = "I couldn't tell which appointment you meant. " +
		"Could you give me the attendee's name or the date?"

	replyDraftDropped = "No problem, I've dropped that request."

	replyStaleReschedule = "It looks like that appointment is no longer on your calendar, " +
		"so there's nothing to move. Anything else?"
)

func replyAskTime(attendee string) string {
	return fmt.Sprintf("What date and time should I book the call with %s?", attendee)
}

func replyAskNewTime(attendee string) string {
	return fmt.Sprintf("When should I move your call with %s to?", attendee)
}

func replyBooked(attendee, when, notes string) string {
	if notes != "" {
		return fmt.Sprintf("You're all set! I've scheduled a call with %s for %s to talk about %s.", attendee, when, notes)
	}
	return fmt.Sprintf("You're all set! I've scheduled a call with %s for %s.", attendee, when)
}

func replyConflict(attendee, when string) string {
	return fmt.Sprintf("That time overlaps with your call with %s at %s. What other time works for you?", attendee, when)
}

func replyCancelled(attendee, when string) string {
	return fmt.Sprintf("Done. I've cancelled your call with %s on %s.", attendee, when)
}

func replyRescheduled(attendee, when string) string {
	return fmt.Sprintf("Done! Your call with %s is now on %s.", attendee, when)
}

func replyListLine(attendee, when, notes string) string {
	if notes != "" {
		return fmt.Sprintf("%s with %s (%s)", when, attendee, notes)
	}
	return fmt.Sprintf("%s with %s", when, attendee)
}
