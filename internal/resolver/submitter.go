package resolver

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling-server/internal/scheduling"
)

// Draft is an in-progress booking. It is only sent once Validate passes;
// on submission failure the caller keeps the draft and may resubmit.
// There is no automatic retry.
type Draft struct {
	DoctorID string
	Date     string
	Time     string
	Type     string
	Reason   string
}

// ValidationError is a locally detected problem with a draft. No network
// request has been made when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Submitter validates booking drafts and commits them to the API.
type Submitter struct {
	client *Client
	now    func() time.Time
}

// NewSubmitter creates a submitter on top of an API client.
func NewSubmitter(client *Client) *Submitter {
	return &Submitter{client: client, now: time.Now}
}

// Validate checks a draft without touching the network: every field is
// required and the date must not fall strictly before today (day
// granularity, time-of-day ignored).
func (s *Submitter) Validate(d Draft) error {
	switch {
	case d.DoctorID == "":
		return &ValidationError{Message: "a doctor must be selected"}
	case d.Date == "":
		return &ValidationError{Message: "a date must be selected"}
	case d.Time == "":
		return &ValidationError{Message: "a time slot must be selected"}
	case d.Type == "":
		return &ValidationError{Message: "a consultation type must be selected"}
	case d.Reason == "":
		return &ValidationError{Message: "a reason must be provided"}
	}
	if !scheduling.ValidDate(d.Date) {
		return &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
	}
	if !scheduling.ValidHour(d.Time) {
		return &ValidationError{Message: "invalid time, expected HH:MM"}
	}
	if scheduling.IsPastDate(d.Date, s.now()) {
		return &ValidationError{Message: "the appointment date must not be in the past"}
	}
	return nil
}

// Submit validates the draft and, only then, books it. API failures come
// back as *APIError with the server's structured message when one was
// provided (e.g. the slot was taken in the meantime).
func (s *Submitter) Submit(ctx context.Context, d Draft) (*Appointment, error) {
	if err := s.Validate(d); err != nil {
		return nil, err
	}
	return s.client.CreateAppointment(ctx, CreateAppointmentRequest{
		DoctorID: d.DoctorID,
		Date:     d.Date,
		Time:     d.Time,
		Type:     d.Type,
		Reason:   d.Reason,
	})
}

// Update edits an existing appointment with the same validation shape as
// Submit. A status change is only allowed when the session is privileged
// (doctor or admin); patients cancel through the dedicated flow.
func (s *Submitter) Update(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error) {
	if patch.Status != "" {
		role := s.client.Session().Role
		if role != "doctor" && role != "admin" {
			return nil, &ValidationError{Message: "only doctors can change the appointment status"}
		}
	}
	if patch.Date != "" {
		if !scheduling.ValidDate(patch.Date) {
			return nil, &ValidationError{Message: "invalid date, expected YYYY-MM-DD"}
		}
		if scheduling.IsPastDate(patch.Date, s.now()) {
			return nil, &ValidationError{Message: "the appointment date must not be in the past"}
		}
	}
	if patch.Time != "" && !scheduling.ValidHour(patch.Time) {
		return nil, &ValidationError{Message: "invalid time, expected HH:MM"}
	}
	return s.client.UpdateAppointment(ctx, id, patch)
}
