package assistant

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/voicebook/pkg/logging"
)

// TimeFormatter renders a datetime for replies. It must be deterministic
// within a session.
type TimeFormatter func(time.Time) string

// DefaultTimeFormat is the reply datetime layout, e.g. "Tue, Jan 3, 2:30 PM".
const DefaultTimeFormat = "Mon, Jan 2, 3:04 PM"

// Recorder receives counters for processed turns. The zero value of the
// engine uses a no-op recorder.
type Recorder interface {
	ObserveTurn(intent string)
	ObserveBooked()
	ObserveCancelled()
	ObserveRescheduled()
	ObserveConflict()
}

type noopRecorder struct{}

func (noopRecorder) ObserveTurn(string)  {}
func (noopRecorder) ObserveBooked()      {}
func (noopRecorder) ObserveCancelled()   {}
func (noopRecorder) ObserveRescheduled() {}
func (noopRecorder) ObserveConflict()    {}

// Engine turns one utterance plus conversational state into a reply and
// the next state. It is total: every input maps to a defined outcome and
// no error ever escapes a turn.
type Engine struct {
	clock      func() time.Time
	newID      func() string
	formatTime TimeFormatter
	dates      *dateParser
	logger     *logging.Logger
	metrics    Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source used for forward-dating and creation
// timestamps. Tests use a fixed clock for deterministic output.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithIDGenerator injects the appointment id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithTimeFormatter overrides how datetimes are rendered in replies.
func WithTimeFormatter(f TimeFormatter) Option {
	return func(e *Engine) { e.formatTime = f }
}

// WithLogger attaches a structured logger for per-turn debug logging.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRecorder attaches turn metrics.
func WithRecorder(rec Recorder) Option {
	return func(e *Engine) {
		if rec != nil {
			e.metrics = rec
		}
	}
}

// New builds an engine with real time, uuid ids, and the default
// datetime format.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:      time.Now,
		newID:      uuid.NewString,
		formatTime: func(t time.Time) string { return t.Format(DefaultTimeFormat) },
		dates:      newDateParser(),
		logger:     logging.Default(),
		metrics:    noopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process handles a single turn. The caller owns the state: ctx is never
// mutated, and the outcome carries the full next state to thread into the
// following turn.
func (e *Engine) Process(utterance string, ctx Context) Outcome {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return e.outcome(replyDidNotCatch, IntentEmpty, ctx.Appointments, ctx.Pending)
	}

	var out Outcome
	if ctx.Pending != nil {
		out = e.continueDialogue(trimmed, ctx)
	} else {
		out = e.classifyIdle(trimmed, ctx)
	}

	e.metrics.ObserveTurn(string(out.Intent))
	e.logger.Debug("turn processed",
		"intent", string(out.Intent),
		"appointments", len(out.Appointments),
		"awaiting_field", out.Pending != nil,
	)
	return out
}

// continueDialogue interprets an utterance while a draft is pending: it
// either drops the draft on an abort cue or merges newly extracted fields
// into it, never overwriting a field that is already set.
func (e *Engine) continueDialogue(utterance string, ctx Context) Outcome {
	lower := strings.ToLower(utterance)
	if isDialogueAbort(lower) {
		return e.outcome(replyDraftDropped, IntentAbort, ctx.Appointments, nil)
	}

	draft := *ctx.Pending
	var exclude []string

	if dm, ok := e.dates.Extract(utterance, e.clock()); ok {
		if draft.Time == nil {
			t := dm.Time
			draft.Time = &t
		}
		exclude = append(exclude, dm.Text)
	}

	if draft.Attendee == "" {
		if nm, ok := extractName(utterance, exclude); ok {
			draft.Attendee = nm.Name
			exclude = append(exclude, nm.Text)
		} else if name, ok := formatName(removeSpans(utterance, exclude)); ok {
			// Bare replies like "Sam" answer the attendee prompt directly.
			draft.Attendee = name
		}
	}

	if draft.Notes == "" {
		if notes, ok := extractNotes(utterance, exclude); ok {
			draft.Notes = notes.Notes
		}
	}

	return e.completeOrPrompt(draft, ctx, IntentFollowUp)
}

// classifyIdle applies the intent priority order for turns with no
// pending draft.
func (e *Engine) classifyIdle(utterance string, ctx Context) Outcome {
	lower := strings.ToLower(utterance)

	switch {
	case isHelpRequest(lower):
		return e.outcome(replyHelp, IntentHelp, ctx.Appointments, ctx.Pending)
	case isListRequest(lower):
		return e.listAppointments(ctx)
	case isCancelRequest(lower):
		return e.handleCancel(utterance, lower, ctx)
	case isRescheduleRequest(lower):
		return e.handleReschedule(utterance, lower, ctx)
	}

	draft := PendingBooking{}
	var exclude []string
	dm, hasDate := e.dates.Extract(utterance, e.clock())
	if hasDate {
		t := dm.Time
		draft.Time = &t
		exclude = append(exclude, dm.Text)
	}
	nm, hasName := extractName(utterance, exclude)
	if hasName {
		draft.Attendee = nm.Name
		exclude = append(exclude, nm.Text)
	}
	if notes, ok := extractNotes(utterance, exclude); ok {
		draft.Notes = notes.Notes
	}

	if hasSchedulingSignal(lower) || hasName || hasDate {
		return e.completeOrPrompt(draft, ctx, IntentBook)
	}

	if isGreeting(lower) {
		return e.outcome(replyGreeting, IntentGreeting, ctx.Appointments, ctx.Pending)
	}

	return e.outcome(replyFallback, IntentFallback, ctx.Appointments, ctx.Pending)
}

// completeOrPrompt checks the draft for missing fields, prompting for the
// attendee before the datetime, and finalizes once both are present.
func (e *Engine) completeOrPrompt(draft PendingBooking, ctx Context, intent Intent) Outcome {
	if draft.Attendee == "" {
		return e.outcome(replyAskAttendee, intent, ctx.Appointments, &draft)
	}
	if draft.Time == nil {
		return e.outcome(replyAskTime(draft.Attendee), intent, ctx.Appointments, &draft)
	}
	return e.finalize(draft, ctx, intent)
}

// finalize commits a complete draft: a reschedule mutates its target in
// place, a new booking is conflict-checked and inserted.
func (e *Engine) finalize(draft PendingBooking, ctx Context, intent Intent) Outcome {
	if draft.RescheduleID != "" {
		target, ok := findByID(ctx.Appointments, draft.RescheduleID)
		if !ok {
			// Deleted between turns. Fail soft and drop the draft.
			return e.outcome(replyStaleReschedule, intent, ctx.Appointments, nil)
		}
		updated := make([]Appointment, len(ctx.Appointments))
		copy(updated, ctx.Appointments)
		for i := range updated {
			if updated[i].ID != target.ID {
				continue
			}
			updated[i].Time = *draft.Time
			if draft.Attendee != "" {
				updated[i].Attendee = draft.Attendee
			}
			if draft.Notes != "" {
				updated[i].Notes = draft.Notes
			}
		}
		attendee := draft.Attendee
		if attendee == "" {
			attendee = target.Attendee
		}
		reply := replyRescheduled(attendee, e.formatTime(*draft.Time))
		e.metrics.ObserveRescheduled()
		return e.outcome(reply, intent, sortAppointments(updated), nil)
	}

	if conflict, ok := findConflict(ctx.Appointments, *draft.Time); ok {
		retained := draft
		retained.Time = nil
		reply := replyConflict(conflict.Attendee, e.formatTime(conflict.Time))
		e.metrics.ObserveConflict()
		return e.outcome(reply, intent, ctx.Appointments, &retained)
	}

	appt := Appointment{
		ID:        e.newID(),
		Attendee:  draft.Attendee,
		Time:      *draft.Time,
		Notes:     draft.Notes,
		CreatedAt: e.clock(),
	}
	next := make([]Appointment, 0, len(ctx.Appointments)+1)
	next = append(next, ctx.Appointments...)
	next = append(next, appt)
	reply := replyBooked(appt.Attendee, e.formatTime(appt.Time), appt.Notes)
	e.metrics.ObserveBooked()
	return e.outcome(reply, intent, sortAppointments(next), nil)
}

func (e *Engine) listAppointments(ctx Context) Outcome {
	if len(ctx.Appointments) == 0 {
		return e.outcome(replyEmptyCalendar, IntentList, ctx.Appointments, ctx.Pending)
	}
	sorted := sortAppointments(ctx.Appointments)
	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, replyListHeader)
	for _, appt := range sorted {
		lines = append(lines, replyListLine(appt.Attendee, e.formatTime(appt.Time), appt.Notes))
	}
	return e.outcome(strings.Join(lines, "\n"), IntentList, ctx.Appointments, ctx.Pending)
}

func (e *Engine) handleCancel(utterance, lower string, ctx Context) Outcome {
	if len(ctx.Appointments) == 0 {
		return e.outcome(replyNothingBooked, IntentCancel, ctx.Appointments, ctx.Pending)
	}
	target, ok := e.resolveTarget(utterance, lower, ctx)
	if !ok {
		return e.outcome(replyAmbiguousTarget, IntentCancel, ctx.Appointments, ctx.Pending)
	}
	remaining := withoutID(ctx.Appointments, target.ID)
	reply := replyCancelled(target.Attendee, e.formatTime(target.Time))
	e.metrics.ObserveCancelled()
	return e.outcome(reply, IntentCancel, remaining, ctx.Pending)
}

func (e *Engine) handleReschedule(utterance, lower string, ctx Context) Outcome {
	if len(ctx.Appointments) == 0 {
		return e.outcome(replyNothingBooked, IntentReschedule, ctx.Appointments, ctx.Pending)
	}
	target, ok := e.resolveTarget(utterance, lower, ctx)
	if !ok {
		return e.outcome(replyAmbiguousTarget, IntentReschedule, ctx.Appointments, ctx.Pending)
	}

	draft := PendingBooking{
		Attendee:     target.Attendee,
		RescheduleID: target.ID,
	}
	if dm, hasDate := e.dates.Extract(utterance, e.clock()); hasDate {
		t := dm.Time
		draft.Time = &t
		if notes, ok := extractNotes(utterance, []string{dm.Text}); ok {
			draft.Notes = notes.Notes
		}
		return e.finalize(draft, ctx, IntentReschedule)
	}

	reply := replyAskNewTime(target.Attendee)
	return e.outcome(reply, IntentReschedule, ctx.Appointments, &draft)
}

// resolveTarget picks the appointment a cancel/reschedule refers to: a
// structured name match first, then an attendee mentioned as a whole word
// in the utterance, then a same-day date match, and finally the only
// appointment if exactly one exists.
func (e *Engine) resolveTarget(utterance, lower string, ctx Context) (Appointment, bool) {
	if nm, ok := extractName(utterance, nil); ok {
		if appt, found := findByAttendee(ctx.Appointments, nm.Name); found {
			return appt, true
		}
	}
	for _, appt := range ctx.Appointments {
		if mentionsAttendee(lower, appt.Attendee) {
			return appt, true
		}
	}
	if dm, ok := e.dates.Extract(utterance, e.clock()); ok {
		for _, appt := range ctx.Appointments {
			if sameDay(appt.Time, dm.Time) {
				return appt, true
			}
		}
	}
	if len(ctx.Appointments) == 1 {
		return ctx.Appointments[0], true
	}
	return Appointment{}, false
}

// mentionsAttendee reports whether the utterance contains the attendee's
// name as whole words. Bare substring matching is not safe here: a short
// name like "Al" sits inside "cancel" and would hijack the target.
func mentionsAttendee(lower, attendee string) bool {
	attendee = strings.ToLower(strings.TrimSpace(attendee))
	if attendee == "" {
		return false
	}
	pat, err := regexp.Compile(`\b` + regexp.QuoteMeta(attendee) + `\b`)
	if err != nil {
		return false
	}
	return pat.MatchString(lower)
}

func (e *Engine) outcome(reply string, intent Intent, appointments []Appointment, pending *PendingBooking) Outcome {
	return Outcome{
		Reply:        reply,
		Intent:       intent,
		Appointments: appointments,
		Pending:      pending,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
