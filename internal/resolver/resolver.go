package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"clinic-scheduling-server/internal/scheduling"
)

// LoadState distinguishes "the doctor offers nothing" from "the request
// failed" on read paths. Collapsing the two into an empty list would
// leave the caller unable to tell a transport failure from a genuinely
// free-less day.
type LoadState int

const (
	// StateUnloaded means no fetch has completed for the selection.
	StateUnloaded LoadState = iota
	// StateLoaded means hours were fetched and at least one exists.
	StateLoaded
	// StateEmpty means the fetch succeeded and there are no hours.
	StateEmpty
	// StateFailed means the fetch failed; Err holds the reason.
	StateFailed
)

// AvailabilityView is the tagged result of an availability read.
type AvailabilityView struct {
	State LoadState
	Hours []string
	Err   error
}

// SlotView is the resolved picture for the current (doctor, date)
// selection: what the weekday offers, what the date already consumes,
// and the bookable difference.
type SlotView struct {
	Weekday  string
	Offered  AvailabilityView
	Occupied []string
	Free     []string
}

// ErrNoSelection is returned by Refresh before both a doctor and a date
// have been selected.
var ErrNoSelection = errors.New("resolver: select a doctor and a date first")

// ErrStale is returned when the selection changed while a refresh was in
// flight; the fetched data was discarded, not applied.
var ErrStale = errors.New("resolver: selection changed during refresh")

// ErrSlotNotFree is returned by ChooseTime for an hour that is not in
// the current free set.
var ErrSlotNotFree = errors.New("resolver: time slot is not free")

// Resolver tracks the booking form's selection and derives the free
// slots for it. Selection changes invalidate any previously chosen time
// and any in-flight refresh: each change bumps a generation counter and
// a refresh only applies its result if the generation it started from is
// still current, so a slow response can never overwrite a newer one.
type Resolver struct {
	client *Client

	mu       sync.Mutex
	gen      uint64
	doctorID string
	date     string
	chosen   string
	view     SlotView
}

// NewResolver creates a resolver on top of an API client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

// SelectDoctor sets the doctor selection, clearing any chosen time and
// the previously resolved view.
func (r *Resolver) SelectDoctor(doctorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctorID = doctorID
	r.invalidateLocked()
}

// SelectDate sets the date selection, clearing any chosen time and the
// previously resolved view.
func (r *Resolver) SelectDate(date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.date = date
	r.invalidateLocked()
}

func (r *Resolver) invalidateLocked() {
	r.gen++
	r.chosen = ""
	r.view = SlotView{}
}

// Selection returns the current (doctor, date) selection.
func (r *Resolver) Selection() (doctorID, date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doctorID, r.date
}

// ChosenTime returns the currently chosen time slot, if any.
func (r *Resolver) ChosenTime() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chosen
}

// ChooseTime picks an hour from the last resolved free set.
func (r *Resolver) ChooseTime(hour string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, free := range r.view.Free {
		if free == hour {
			r.chosen = hour
			return nil
		}
	}
	return ErrSlotNotFree
}

// View returns the last applied slot view.
func (r *Resolver) View() SlotView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Refresh fetches availability and occupancy for the current selection
// and recomputes the free slots. Read failures degrade to a Failed view
// with no free slots rather than an error: the booking form stays up,
// it just offers nothing. The result is applied only if the selection
// has not changed since the refresh started.
func (r *Resolver) Refresh(ctx context.Context) (SlotView, error) {
	r.mu.Lock()
	gen, doctorID, date := r.gen, r.doctorID, r.date
	r.mu.Unlock()

	if doctorID == "" || date == "" {
		return SlotView{}, ErrNoSelection
	}

	weekday, err := scheduling.WeekdayOf(date)
	if err != nil {
		return SlotView{}, fmt.Errorf("resolver: %w", err)
	}

	view := SlotView{Weekday: weekday, Free: []string{}}

	hours, err := r.client.WeekdayHours(ctx, doctorID, weekday)
	switch {
	case err != nil:
		view.Offered = AvailabilityView{State: StateFailed, Err: err}
	case len(hours) == 0:
		view.Offered = AvailabilityView{State: StateEmpty, Hours: []string{}}
	default:
		view.Offered = AvailabilityView{State: StateLoaded, Hours: hours}
	}

	if view.Offered.State == StateLoaded {
		occupied, err := r.client.OccupiedTimes(ctx, doctorID, date)
		if err != nil {
			view.Offered = AvailabilityView{State: StateFailed, Err: err}
		} else {
			view.Occupied = occupied
			view.Free = scheduling.FreeSlots(view.Offered.Hours, occupied)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return SlotView{}, ErrStale
	}
	r.view = view
	// A previously chosen time may have been taken in the meantime.
	if r.chosen != "" {
		still := false
		for _, free := range view.Free {
			if free == r.chosen {
				still = true
				break
			}
		}
		if !still {
			r.chosen = ""
		}
	}
	return view, nil
}
