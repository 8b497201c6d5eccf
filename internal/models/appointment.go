package models

// AppointmentStatus represents the status of an appointment.
// The values are the exact strings the platform has always stored.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "En attente"
	StatusConfirmed AppointmentStatus = "Confirmé"
	StatusCancelled AppointmentStatus = "Annulé"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// ConsultationTypes are the accepted values for Appointment.Type.
var ConsultationTypes = []string{
	"Consultation générale",
	"Examen de routine",
	"Urgence",
}

// Appointment represents a booked slot: one doctor, one calendar date,
// one time-of-day. Date is day-granular ("2006-01-02") and Time is a
// wall-clock "HH:MM" string, matching the availability lists.
//
// Intended invariant, enforced transactionally at creation and edit: at
// most one non-cancelled appointment per (doctor, date, time).
type Appointment struct {
	BaseModel
	PatientID string            `gorm:"size:36;index" json:"patientId"`
	DoctorID  string            `gorm:"size:36;index:idx_doctor_slot" json:"doctorId"`
	Date      string            `gorm:"size:10;index:idx_doctor_slot" json:"date"`
	Time      string            `gorm:"size:5;index:idx_doctor_slot" json:"time"`
	Type      string            `gorm:"size:100" json:"type"`
	Reason    string            `gorm:"type:text" json:"reason"`
	Status    AppointmentStatus `gorm:"size:20;default:'En attente'" json:"status"`
	VisitDone bool              `gorm:"default:false" json:"visitDone"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

// Cancelled reports whether the appointment is in its terminal state.
func (a *Appointment) Cancelled() bool {
	return a.Status == StatusCancelled
}
