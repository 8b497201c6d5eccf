// Package resolver implements the booking workflow a patient walks
// through: pick a doctor, pick a date, see the free slots, submit. It
// talks to the scheduling API over HTTP and keeps only view state; the
// server remains the authority on conflicts.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Session is the explicit authentication context. It is handed to the
// client at construction and propagated on every request; nothing is
// read from ambient state.
type Session struct {
	Token  string
	UserID string
	Role   string
}

// Doctor is a bookable doctor as listed by the API. UserID is the
// identifier appointments and availability reference.
type Doctor struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Specialty string `json:"specialty"`
}

// Appointment mirrors the server's appointment payload.
type Appointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	VisitDone bool   `json:"visitDone"`
}

// APIError is a structured error response from the scheduling API. Its
// message is server-provided and safe to show to the user verbatim
// (e.g. which slot is already booked).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("scheduling API returned status %d", e.StatusCode)
}

// Client is a typed HTTP client for the scheduling API.
type Client struct {
	baseURL string
	httpc   *http.Client
	session Session
}

// NewClient creates a client for the API at baseURL, authenticated as
// the given session.
func NewClient(baseURL string, session Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// Session returns the session the client was built with.
func (c *Client) Session() Session {
	return c.session
}

// envelope matches the server's standard response shape.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("scheduling API request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Error
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// Doctors lists the bookable doctors.
func (c *Client) Doctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	if err := c.do(ctx, http.MethodGet, "/api/v1/doctors", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// WeekdayHours returns the ordered offered hours for (doctor, weekday).
func (c *Client) WeekdayHours(ctx context.Context, doctorID, weekday string) ([]string, error) {
	var out struct {
		Hours []string `json:"hours"`
	}
	path := fmt.Sprintf("/api/v1/availability/%s/%s", doctorID, weekday)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Hours, nil
}

// ReplaceWeekdayHours saves a full replacement hour list for one weekday.
func (c *Client) ReplaceWeekdayHours(ctx context.Context, doctorID, weekday string, hours []string) error {
	path := fmt.Sprintf("/api/v1/availability/%s/%s", doctorID, weekday)
	body := map[string][]string{"hours": hours}
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// ResetWeekdayHours asks the server to rebuild one weekday from the
// default template and returns the resulting hours.
func (c *Client) ResetWeekdayHours(ctx context.Context, doctorID, weekday string) ([]string, error) {
	var out struct {
		Hours []string `json:"hours"`
	}
	path := fmt.Sprintf("/api/v1/availability/%s/%s/reset", doctorID, weekday)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Hours, nil
}

// ReservedByWeekday returns the doctor's reserved hours grouped by
// weekday, for the availability editor.
func (c *Client) ReservedByWeekday(ctx context.Context, doctorID string) (map[string][]string, error) {
	var out struct {
		Reserved map[string][]string `json:"reserved"`
	}
	path := fmt.Sprintf("/api/v1/availability/%s/reserved", doctorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Reserved, nil
}

// OccupiedTimes returns the hours already booked for a doctor on one
// exact date.
func (c *Client) OccupiedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	var out struct {
		Occupied []string `json:"occupied"`
	}
	path := fmt.Sprintf("/api/v1/appointments/occupied/%s/%s", doctorID, date)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Occupied, nil
}

// CreateAppointmentRequest is the booking payload. The patient identity
// comes from the session's bearer token, not the body.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

// CreateAppointment books a slot.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	var appointment Appointment
	if err := c.do(ctx, http.MethodPost, "/api/v1/appointments", req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// AppointmentPatch is a partial appointment edit. Empty fields are left
// unchanged.
type AppointmentPatch struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Type     string `json:"type,omitempty"`
	DoctorID string `json:"doctorId,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UpdateAppointment applies a partial edit to an appointment.
func (c *Client) UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error) {
	var appointment Appointment
	if err := c.do(ctx, http.MethodPatch, "/api/v1/appointments/"+id, patch, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}
