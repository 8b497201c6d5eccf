package scheduling

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func appointmentRows(mock sqlmock.Sqlmock) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "patient_id", "doctor_id", "date", "time", "type", "reason", "status"})
}

func TestReservedByWeekday(t *testing.T) {
	db, mock := newMockDB(t)

	// 2026-09-07 is a Monday, 2026-09-09 a Wednesday. The cancelled
	// appointment never reaches us because the query filters it out.
	rows := appointmentRows(mock).
		AddRow("a1", "p1", "d1", "2026-09-07", "10:00", "Consultation générale", "suivi", string(models.StatusPending)).
		AddRow("a2", "p2", "d1", "2026-09-07", "11:00", "Consultation générale", "suivi", string(models.StatusConfirmed)).
		AddRow("a3", "p1", "d1", "2026-09-09", "09:00", "Urgence", "douleur", string(models.StatusPending))
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE doctor_id = \\? AND status <> \\?").
		WithArgs("d1", models.StatusCancelled).
		WillReturnRows(rows)

	reserved, err := ReservedByWeekday(db, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, reserved["monday"])
	assert.Equal(t, []string{"09:00"}, reserved["wednesday"])
	assert.Empty(t, reserved["tuesday"])
	assert.Empty(t, reserved["friday"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservedByWeekdaySkipsMalformedDates(t *testing.T) {
	db, mock := newMockDB(t)

	rows := appointmentRows(mock).
		AddRow("a1", "p1", "d1", "not-a-date", "10:00", "Urgence", "x", string(models.StatusPending)).
		AddRow("a2", "p1", "d1", "2026-09-08", "14:00", "Urgence", "x", string(models.StatusPending))
	mock.ExpectQuery("SELECT \\* FROM `appointments`").
		WithArgs("d1", models.StatusCancelled).
		WillReturnRows(rows)

	reserved, err := ReservedByWeekday(db, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, reserved["tuesday"])
}

func TestOccupiedOnDate(t *testing.T) {
	db, mock := newMockDB(t)

	rows := appointmentRows(mock).
		AddRow("a1", "p1", "d1", "2026-09-10", "09:00", "Examen de routine", "x", string(models.StatusPending)).
		AddRow("a2", "p2", "d1", "2026-09-10", "15:00", "Examen de routine", "x", string(models.StatusConfirmed))
	mock.ExpectQuery("SELECT \\* FROM `appointments` WHERE doctor_id = \\? AND date = \\? AND status <> \\?").
		WithArgs("d1", "2026-09-10", models.StatusCancelled).
		WillReturnRows(rows)

	occupied, err := OccupiedOnDate(db, "d1", "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "15:00"}, occupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotTaken(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `appointments`").
		WithArgs("d1", "2026-09-10", "10:00", models.StatusCancelled).
		WillReturnRows(mock.NewRows([]string{"count(*)"}).AddRow(1))

	taken, err := SlotTaken(db, "d1", "2026-09-10", "10:00", "")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestSlotTakenExcludesAppointment(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `appointments`").
		WithArgs("d1", "2026-09-10", "10:00", models.StatusCancelled, "a1").
		WillReturnRows(mock.NewRows([]string{"count(*)"}).AddRow(0))

	taken, err := SlotTaken(db, "d1", "2026-09-10", "10:00", "a1")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
