package models

// Visit records what happened when an appointment was honored. Attaching
// a visit to an appointment flips the appointment's VisitDone flag; the
// flag is one-way and a visit is never detached.
type Visit struct {
	BaseModel
	AppointmentID string `gorm:"size:36;index" json:"appointmentId"`
	PatientID     string `gorm:"size:36;index" json:"patientId"`
	DoctorID      string `gorm:"size:36;index" json:"doctorId"`
	Facility      string `gorm:"size:255" json:"facility"`
	VisitDate     string `gorm:"size:10" json:"visitDate"`
	Summary       string `gorm:"type:text" json:"summary"`
	Symptoms      string `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis     string `gorm:"type:text" json:"diagnosis,omitempty"`
	Treatment     string `gorm:"type:text" json:"treatment,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
