package assistant

import (
	"sort"
	"strings"
	"time"
)

// conflictWindow is how close two appointments may be before they are
// considered to overlap.
const conflictWindow = 45 * time.Minute

// Appointment is a single booked call on the caller's calendar.
type Appointment struct {
	ID        string    `json:"id"`
	Attendee  string    `json:"attendee"`
	Time      time.Time `json:"time"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingBooking is a partially filled booking draft carried across turns.
// A nil *PendingBooking means no dialogue is in progress. RescheduleID is
// set when the draft will move an existing appointment instead of creating
// a new one.
type PendingBooking struct {
	Attendee     string     `json:"attendee,omitempty"`
	Time         *time.Time `json:"time,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	RescheduleID string     `json:"reschedule_id,omitempty"`
}

// Context is the full conversational state handed to the engine each turn.
// The engine never retains it; callers thread the returned state back in.
type Context struct {
	Appointments []Appointment   `json:"appointments"`
	Pending      *PendingBooking `json:"pending,omitempty"`
}

// Outcome is what one processed utterance produces.
type Outcome struct {
	Reply        string          `json:"reply"`
	Intent       Intent          `json:"intent"`
	Appointments []Appointment   `json:"appointments"`
	Pending      *PendingBooking `json:"pending,omitempty"`
}

// sortAppointments returns a fresh slice ordered by ascending time.
// Equal timestamps keep their original relative order.
func sortAppointments(appointments []Appointment) []Appointment {
	out := make([]Appointment, len(appointments))
	copy(out, appointments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// findConflict returns the first appointment within conflictWindow of t.
func findConflict(appointments []Appointment, t time.Time) (Appointment, bool) {
	for _, appt := range appointments {
		diff := appt.Time.Sub(t)
		if diff < 0 {
			diff = -diff
		}
		if diff <= conflictWindow {
			return appt, true
		}
	}
	return Appointment{}, false
}

// findByAttendee returns the first appointment whose attendee contains the
// query, case-insensitively.
func findByAttendee(appointments []Appointment, query string) (Appointment, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Appointment{}, false
	}
	for _, appt := range appointments {
		if strings.Contains(strings.ToLower(appt.Attendee), query) {
			return appt, true
		}
	}
	return Appointment{}, false
}

// findByID returns the appointment with the given id.
func findByID(appointments []Appointment, id string) (Appointment, bool) {
	for _, appt := range appointments {
		if appt.ID == id {
			return appt, true
		}
	}
	return Appointment{}, false
}

// withoutID returns a copy of the collection minus the appointment with id.
func withoutID(appointments []Appointment, id string) []Appointment {
	out := make([]Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.ID != id {
			out = append(out, appt)
		}
	}
	return out
}
