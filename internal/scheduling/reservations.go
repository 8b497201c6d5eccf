package scheduling

import (
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
)

// ReservedByWeekday scans all of a doctor's non-cancelled appointments
// and groups the booked hours by the weekday their date falls on. The
// full scan is recomputed on every call; per-doctor volume is small and
// a stale incremental index would be worse than the rescan.
func ReservedByWeekday(db *gorm.DB, doctorID string) (map[string][]string, error) {
	var appointments []models.Appointment
	err := db.Where("doctor_id = ? AND status <> ?", doctorID, models.StatusCancelled).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	reserved := make(map[string][]string, len(Weekdays))
	for _, day := range Weekdays {
		reserved[day] = []string{}
	}
	for _, appt := range appointments {
		day, err := WeekdayOf(appt.Date)
		if err != nil {
			continue // malformed legacy row, not this caller's problem
		}
		reserved[day] = append(reserved[day], appt.Time)
	}
	return reserved, nil
}

// OccupiedOnDate returns the hours already taken for a doctor on one
// exact calendar date, excluding cancelled appointments. This is the
// booking-path lookup: weekday-wide reservations are irrelevant when the
// patient has chosen a concrete date.
func OccupiedOnDate(db *gorm.DB, doctorID, date string) ([]string, error) {
	var appointments []models.Appointment
	err := db.Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	occupied := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		occupied = append(occupied, appt.Time)
	}
	return occupied, nil
}

// SlotTaken reports whether the doctor already has a non-cancelled
// appointment at the exact (date, time), optionally ignoring one
// appointment ID (the one being edited). Run inside a transaction when
// the answer gates an insert or update.
func SlotTaken(db *gorm.DB, doctorID, date, hour, excludeID string) (bool, error) {
	query := db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
			doctorID, date, hour, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
