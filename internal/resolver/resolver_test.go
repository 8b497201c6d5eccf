package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  200,
		"message": "ok",
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": "An error occurred",
		"error":   message,
	})
}

// stubState holds the hour lists a scheduling stub serves; SetOccupied
// lets a test book a slot between refreshes.
type stubState struct {
	mu       sync.Mutex
	hours    []string
	occupied []string
}

func (s *stubState) SetOccupied(hours []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occupied = hours
}

func (s *stubState) snapshot() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hours, s.occupied
}

// schedulingStub serves the availability and occupancy endpoints the
// resolver reads from.
func schedulingStub(t *testing.T, state *stubState) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/availability/{doctorId}/{weekday}", func(w http.ResponseWriter, r *http.Request) {
		hours, _ := state.snapshot()
		writeData(w, map[string]interface{}{
			"doctorId": r.PathValue("doctorId"),
			"weekday":  r.PathValue("weekday"),
			"hours":    hours,
		})
	})
	mux.HandleFunc("GET /api/v1/appointments/occupied/{doctorId}/{date}", func(w http.ResponseWriter, r *http.Request) {
		_, occupied := state.snapshot()
		writeData(w, map[string]interface{}{
			"doctorId": r.PathValue("doctorId"),
			"date":     r.PathValue("date"),
			"occupied": occupied,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshComputesFreeSlots(t *testing.T) {
	srv := schedulingStub(t, &stubState{
		hours:    []string{"09:00", "10:00", "11:00"},
		occupied: []string{"10:00"},
	})
	r := NewResolver(NewClient(srv.URL, Session{Token: "tok", UserID: "p1", Role: "patient"}))

	r.SelectDoctor("d1")
	r.SelectDate("2026-09-07") // a monday

	view, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "monday", view.Weekday)
	assert.Equal(t, StateLoaded, view.Offered.State)
	assert.Equal(t, []string{"09:00", "11:00"}, view.Free)
	assert.Equal(t, view, r.View())
}

func TestRefreshDistinguishesEmptyFromFailed(t *testing.T) {
	var occupiedCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/availability/{doctorId}/{weekday}", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{"hours": []string{}})
	})
	mux.HandleFunc("GET /api/v1/appointments/occupied/{doctorId}/{date}", func(w http.ResponseWriter, r *http.Request) {
		occupiedCalls.Add(1)
		writeData(w, map[string]interface{}{"occupied": []string{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r := NewResolver(NewClient(srv.URL, Session{}))
	r.SelectDoctor("d1")
	r.SelectDate("2026-09-08")

	view, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, view.Offered.State)
	assert.Empty(t, view.Free)
	assert.EqualValues(t, 0, occupiedCalls.Load(), "no occupancy fetch for a day with no hours")

	srv.Close()
	view, err = r.Refresh(context.Background())
	require.NoError(t, err, "a read failure degrades the view, it does not fail the refresh")
	assert.Equal(t, StateFailed, view.Offered.State)
	assert.Error(t, view.Offered.Err)
	assert.Empty(t, view.Free)
}

func TestRefreshRequiresSelection(t *testing.T) {
	r := NewResolver(NewClient("http://127.0.0.1:0", Session{}))

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)

	r.SelectDoctor("d1")
	_, err = r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestChooseTimeOnlyFromFreeSet(t *testing.T) {
	srv := schedulingStub(t, &stubState{
		hours:    []string{"09:00", "10:00"},
		occupied: []string{"10:00"},
	})
	r := NewResolver(NewClient(srv.URL, Session{}))
	r.SelectDoctor("d1")
	r.SelectDate("2026-09-07")

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, r.ChooseTime("10:00"), ErrSlotNotFree)
	assert.ErrorIs(t, r.ChooseTime("12:00"), ErrSlotNotFree)
	require.NoError(t, r.ChooseTime("09:00"))
	assert.Equal(t, "09:00", r.ChosenTime())
}

func TestSelectionChangeClearsChosenTime(t *testing.T) {
	srv := schedulingStub(t, &stubState{hours: []string{"09:00"}})
	r := NewResolver(NewClient(srv.URL, Session{}))
	r.SelectDoctor("d1")
	r.SelectDate("2026-09-07")

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.ChooseTime("09:00"))

	r.SelectDate("2026-09-08")
	assert.Empty(t, r.ChosenTime())
	assert.Equal(t, SlotView{}, r.View())
}

func TestRefreshClearsChosenTimeWhenSlotIsTaken(t *testing.T) {
	state := &stubState{hours: []string{"09:00", "11:00"}}
	srv := schedulingStub(t, state)
	r := NewResolver(NewClient(srv.URL, Session{}))
	r.SelectDoctor("d1")
	r.SelectDate("2026-09-07")

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.ChooseTime("09:00"))

	// Someone else books 09:00 between refreshes.
	state.SetOccupied([]string{"09:00"})
	view, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, view.Free)
	assert.Empty(t, r.ChosenTime())
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/availability/{doctorId}/{weekday}", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]interface{}{"hours": []string{"09:00"}})
	})
	mux.HandleFunc("GET /api/v1/appointments/occupied/{doctorId}/{date}", func(w http.ResponseWriter, r *http.Request) {
		close(inFlight)
		<-release
		writeData(w, map[string]interface{}{"occupied": []string{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	r := NewResolver(NewClient(srv.URL, Session{}))
	r.SelectDoctor("d1")
	r.SelectDate("2026-09-07")

	done := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background())
		done <- err
	}()

	<-inFlight
	r.SelectDate("2026-09-08") // selection moves on mid-flight
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, SlotView{}, r.View(), "the stale result must not be applied")
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/doctors", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeData(w, []map[string]interface{}{
			{"id": "dp1", "userId": "d1", "firstName": "Anne", "lastName": "Moreau", "specialty": "Cardiologie"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, Session{Token: "tok-123", UserID: "p1", Role: "patient"})
	doctors, err := client.Doctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "d1", doctors[0].UserID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientSurfacesAPIErrorMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/appointments", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "Le créneau 10:00 est déjà réservé pour le 2099-01-05.")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, Session{Token: "tok"})
	_, err := client.CreateAppointment(context.Background(), CreateAppointmentRequest{
		DoctorID: "d1", Date: "2099-01-05", Time: "10:00",
		Type: "Consultation générale", Reason: "suivi",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Le créneau 10:00 est déjà réservé pour le 2099-01-05.", apiErr.Message)
}
