package rsvp

import (
	"net/url"
	"roam/src-server/model"
	"strings"
)

type ContactMethod string

const (
	ContactText  ContactMethod = "text"
	ContactEmail ContactMethod = "email"
	ContactNone  ContactMethod = "none"
)

// provenance values for the payload's source field
const (
	SourceCheckin = "checkin" // same-day check-in
	SourceAdvance = "rsvp"    // advance RSVP
)

// What the user typed into the flow. Contact defaults to text at flow start.
type Form struct {
	Name     string
	Phone    string
	Email    string
	Contact  ContactMethod
	Consent  bool
	Language string
}

// BuildPayload assembles the flat form-encoded document sent to the intake
// endpoint. Provenance is computed here, at submission time, from the event
// date versus today; it is never user-settable.
func BuildPayload(event model.Event, form Form, needs []string, today string, submissionID string) url.Values {
	source := SourceAdvance
	if event.IsSameDay(today) {
		source = SourceCheckin
	}

	values := url.Values{}
	values.Set("submissionId", submissionID)
	values.Set("eventId", event.ID)
	values.Set("eventTitle", event.Title)
	values.Set("eventDate", event.DateDisplay)
	values.Set("name", form.Name)
	values.Set("phone", form.Phone)
	values.Set("email", form.Email)
	values.Set("contact", string(form.Contact))
	values.Set("consent", map[bool]string{true: "yes", false: "no"}[form.Consent])
	values.Set("needs", strings.Join(needs, ", "))
	values.Set("language", form.Language)
	values.Set("source", source)
	return values
}
