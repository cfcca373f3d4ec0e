package rsvp

import (
	"context"
	"fmt"
	"log/slog"
	"roam/src-server/model"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// how long the success state lingers before the flow dismisses itself
const DefaultDismissDelay = 4 * time.Second

// Flow is one RSVP attempt lifecycle for one event:
// idle -> submitting -> {success, error}. Success self-dismisses back to
// idle after DismissDelay; error waits for a manual resubmission.
type Flow struct {
	mu sync.Mutex

	event  model.Event
	sender Sender

	status Status
	form   Form
	needs  map[string]struct{}

	DismissDelay time.Duration
	dismissTimer *time.Timer
}

func NewFlow(event model.Event, sender Sender) *Flow {
	return &Flow{
		event:  event,
		sender: sender,
		status: StatusIdle,
		form: Form{
			Contact: ContactText,
		},
		needs:        make(map[string]struct{}),
		DismissDelay: DefaultDismissDelay,
	}
}

func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Flow) Event() model.Event {
	return f.event
}

// SetForm replaces the typed fields; contact falls back to the default
// when the caller leaves it blank.
func (f *Flow) SetForm(form Form) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if form.Contact == "" {
		form.Contact = ContactText
	}
	f.form = form
}

// ToggleNeed flips one needs tag: present -> removed, absent -> added.
// Toggling twice is a no-op, so the set never holds duplicates.
func (f *Flow) ToggleNeed(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.needs[tag]; ok {
		delete(f.needs, tag)
		return
	}
	f.needs[tag] = struct{}{}
}

// Needs returns the selected tags in sorted order. Order carries no meaning
// for the receiver; sorting just keeps payloads deterministic.
func (f *Flow) Needs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.needsLocked()
}

func (f *Flow) needsLocked() []string {
	out := make([]string, 0, len(f.needs))
	for tag := range f.needs {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Validate enforces the required fields: name and phone always, email only
// when the event is not a same-day check-in.
func (f *Flow) Validate(today string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked(today)
}

func (f *Flow) validateLocked(today string) error {
	switch {
	case f.form.Name == "":
		return fmt.Errorf("name is required")
	case f.form.Phone == "":
		return fmt.Errorf("phone is required")
	case f.form.Email == "" && !f.event.IsSameDay(today):
		return fmt.Errorf("email is required")
	}
	switch f.form.Contact {
	case ContactText, ContactEmail, ContactNone:
	default:
		return fmt.Errorf("unknown contact method %q", f.form.Contact)
	}
	return nil
}

// Submit runs one attempt: exactly one outbound request, no retries. A
// dispatch without a transport error is success; a transport error parks
// the flow in the error state until the user resubmits. Returns the
// terminal status of this attempt.
func (f *Flow) Submit(ctx context.Context, today string) (Status, error) {
	f.mu.Lock()
	switch f.status {
	case StatusSubmitting:
		f.mu.Unlock()
		return StatusSubmitting, fmt.Errorf("(*Flow).Submit: submission already in flight")
	case StatusSuccess:
		f.mu.Unlock()
		return StatusSuccess, fmt.Errorf("(*Flow).Submit: already submitted")
	}
	if err := f.validateLocked(today); err != nil {
		status := f.status
		f.mu.Unlock()
		return status, fmt.Errorf("(*Flow).Submit: %w", err)
	}

	f.status = StatusSubmitting
	submissionID := uuid.NewString()
	payload := BuildPayload(f.event, f.form, f.needsLocked(), today, submissionID)
	f.mu.Unlock()

	err := f.sender.Send(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusError
		slog.Error("rsvp dispatch failed",
			"event", f.event.ID,
			"submission", submissionID,
			"error", err)
		return StatusError, nil
	}

	f.status = StatusSuccess
	slog.Info("rsvp dispatched",
		"event", f.event.ID,
		"submission", submissionID,
		"source", payload.Get("source"))
	f.dismissTimer = time.AfterFunc(f.DismissDelay, f.dismiss)
	return StatusSuccess, nil
}

// dismiss is the scheduled transition out of the success state.
func (f *Flow) dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != StatusSuccess {
		return
	}
	f.status = StatusIdle
	f.needs = make(map[string]struct{})
	f.form = Form{Contact: ContactText}
}

// Close stops the pending dismiss timer. In-flight requests are not
// cancelled; the sink is best-effort.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dismissTimer != nil {
		f.dismissTimer.Stop()
		f.dismissTimer = nil
	}
}
