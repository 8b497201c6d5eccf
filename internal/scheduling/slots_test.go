package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	cases := map[string]string{
		"2026-09-07": "monday",
		"2026-09-08": "tuesday",
		"2026-09-09": "wednesday",
		"2026-09-10": "thursday",
		"2026-09-11": "friday",
		"2026-09-12": "saturday",
		"2026-09-13": "sunday",
	}
	for date, want := range cases {
		got, err := WeekdayOf(date)
		require.NoError(t, err)
		assert.Equal(t, want, got, date)
	}

	_, err := WeekdayOf("09/07/2026")
	assert.Error(t, err)
	_, err = WeekdayOf("")
	assert.Error(t, err)
}

func TestIsWeekday(t *testing.T) {
	assert.True(t, IsWeekday("monday"))
	assert.True(t, IsWeekday("friday"))
	assert.False(t, IsWeekday("saturday"))
	assert.False(t, IsWeekday("Monday"))
	assert.False(t, IsWeekday(""))
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)

	assert.True(t, IsPastDate("2026-09-09", now))
	assert.False(t, IsPastDate("2026-09-10", now), "today is not past")
	assert.False(t, IsPastDate("2026-09-11", now))
	assert.True(t, IsPastDate("2025-12-31", now))
}

func TestDefaultHours(t *testing.T) {
	hours := DefaultHours()
	require.Len(t, hours, 10)
	assert.Equal(t, "09:00", hours[0])
	assert.Equal(t, "18:00", hours[9])
}

func TestFreeSlots(t *testing.T) {
	offered := []string{"09:00", "10:00", "11:00"}

	free := FreeSlots(offered, []string{"10:00"})
	assert.Equal(t, []string{"09:00", "11:00"}, free)

	assert.Equal(t, offered, FreeSlots(offered, nil))
	assert.Empty(t, FreeSlots(offered, offered))
	assert.Empty(t, FreeSlots(nil, []string{"10:00"}))

	// Reserved hours outside the offered list change nothing.
	assert.Equal(t, offered, FreeSlots(offered, []string{"23:00"}))

	// Inputs are not mutated and ordering is preserved.
	unordered := []string{"11:00", "09:00", "10:00"}
	free = FreeSlots(unordered, []string{"09:00"})
	assert.Equal(t, []string{"11:00", "10:00"}, free)
	assert.Equal(t, []string{"11:00", "09:00", "10:00"}, unordered)
}

func TestResetHours(t *testing.T) {
	// No reservations: the plain default template.
	assert.Equal(t, DefaultHours(), ResetHours(nil))

	// Reserved hours inside the template do not duplicate.
	hours := ResetHours([]string{"10:00", "14:00"})
	assert.Equal(t, DefaultHours(), hours)

	// A reserved hour outside the template survives the reset, sorted
	// into place.
	hours = ResetHours([]string{"07:00", "20:00"})
	require.Len(t, hours, 12)
	assert.Equal(t, "07:00", hours[0])
	assert.Equal(t, "20:00", hours[11])
	assert.Contains(t, hours, "09:00")
}

func TestValidateHours(t *testing.T) {
	assert.NoError(t, ValidateHours(nil))
	assert.NoError(t, ValidateHours([]string{"09:00", "09:30", "18:00"}))

	assert.Error(t, ValidateHours([]string{"9:00"}))
	assert.Error(t, ValidateHours([]string{"09:00", "nope"}))
	assert.Error(t, ValidateHours([]string{"09:00", "09:00"}))
}

func TestValidDateAndHour(t *testing.T) {
	assert.True(t, ValidDate("2026-02-28"))
	assert.False(t, ValidDate("2026-02-30"))
	assert.False(t, ValidDate("28-02-2026"))

	assert.True(t, ValidHour("00:00"))
	assert.True(t, ValidHour("23:59"))
	assert.False(t, ValidHour("24:00"))
	assert.False(t, ValidHour("0900"))
}
