package models

// MedicalRecordType represents the type of medical record
type MedicalRecordType string

const (
	RecordTypeConsultation MedicalRecordType = "ConsultationNote"
	RecordTypePrescription MedicalRecordType = "Prescription"
	RecordTypeVisitSummary MedicalRecordType = "VisitSummary"
)

// MedicalRecord is one entry in a patient's medical history. Entries are
// written by doctors, either directly or derived from a visit.
type MedicalRecord struct {
	BaseModel
	PatientID  string            `gorm:"size:36;index" json:"patientId"`
	DoctorID   string            `gorm:"size:36;index" json:"doctorId"`
	VisitID    string            `gorm:"size:36;index" json:"visitId,omitempty"`
	RecordType MedicalRecordType `gorm:"size:50" json:"recordType"`
	RecordDate string            `gorm:"size:10" json:"date"`
	Title      string            `gorm:"size:255;not null" json:"title"`
	Symptoms   string            `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis  string            `gorm:"type:text" json:"diagnosis,omitempty"`
	Treatment  string            `gorm:"type:text" json:"treatment,omitempty"`
	Summary    string            `gorm:"type:text" json:"summary"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}
