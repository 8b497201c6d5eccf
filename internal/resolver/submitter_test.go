package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(date string) func() time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return func() time.Time { return t }
}

// countingServer counts every request it receives so tests can prove
// that local validation short-circuits before the network.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func validDraft() Draft {
	return Draft{
		DoctorID: "d1",
		Date:     "2026-09-14",
		Time:     "10:00",
		Type:     "Consultation générale",
		Reason:   "Douleurs persistantes",
	}
}

func TestSubmitValidatesLocallyBeforeAnyRequest(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	s := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "patient"}))
	s.now = fixedClock("2026-09-10")

	cases := []Draft{
		{},
		{DoctorID: "d1"},
		{DoctorID: "d1", Date: "2026-09-14"},
		{DoctorID: "d1", Date: "2026-09-14", Time: "10:00"},
		{DoctorID: "d1", Date: "2026-09-14", Time: "10:00", Type: "Urgence"},
	}
	for _, d := range cases {
		_, err := s.Submit(context.Background(), d)
		assert.True(t, IsValidation(err), "draft %+v must fail locally", d)
	}

	bad := validDraft()
	bad.Date = "14/09/2026"
	_, err := s.Submit(context.Background(), bad)
	assert.True(t, IsValidation(err))

	bad = validDraft()
	bad.Date = "2026-09-09" // yesterday
	_, err = s.Submit(context.Background(), bad)
	assert.True(t, IsValidation(err))

	bad = validDraft()
	bad.Time = "9:00"
	_, err = s.Submit(context.Background(), bad)
	assert.True(t, IsValidation(err))

	assert.EqualValues(t, 0, calls.Load())
}

func TestSubmitAcceptsToday(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{
			"id": "a1", "patientId": "p1", "doctorId": "d1",
			"date": "2026-09-10", "time": "10:00", "status": "En attente",
		})
	})
	s := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "patient"}))
	s.now = fixedClock("2026-09-10")

	d := validDraft()
	d.Date = "2026-09-10" // today is bookable
	appt, err := s.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "a1", appt.ID)
	assert.Equal(t, "En attente", appt.Status)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmitSurfacesConflictVerbatim(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "Le créneau 10:00 est déjà réservé pour le 2026-09-14.")
	})
	s := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "patient"}))
	s.now = fixedClock("2026-09-10")

	d := validDraft()
	_, err := s.Submit(context.Background(), d)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Le créneau 10:00 est déjà réservé pour le 2026-09-14.", apiErr.Error())
	assert.EqualValues(t, 1, calls.Load())

	// The draft is untouched; the caller may resubmit it as-is.
	assert.Equal(t, validDraft(), d)
}

func TestUpdateStatusRequiresPrivilegedRole(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{"id": "a1", "status": "Confirmé"})
	})

	patient := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "patient"}))
	_, err := patient.Update(context.Background(), "a1", AppointmentPatch{Status: "Confirmé"})
	assert.True(t, IsValidation(err))
	assert.EqualValues(t, 0, calls.Load())

	doctor := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "doctor"}))
	appt, err := doctor.Update(context.Background(), "a1", AppointmentPatch{Status: "Confirmé"})
	require.NoError(t, err)
	assert.Equal(t, "Confirmé", appt.Status)
	assert.EqualValues(t, 1, calls.Load())
}

func TestUpdateValidatesMovedSlot(t *testing.T) {
	srv, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	s := NewSubmitter(NewClient(srv.URL, Session{Token: "tok", Role: "patient"}))
	s.now = fixedClock("2026-09-10")

	_, err := s.Update(context.Background(), "a1", AppointmentPatch{Date: "2026-09-01"})
	assert.True(t, IsValidation(err))

	_, err = s.Update(context.Background(), "a1", AppointmentPatch{Time: "nope"})
	assert.True(t, IsValidation(err))

	assert.EqualValues(t, 0, calls.Load())
}
