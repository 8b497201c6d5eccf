package models

// DoctorProfile holds the public, bookable identity of a doctor.
//
// Appointments and weekday availability always reference the doctor's
// account ID (UserID), not the profile row's own ID. The two are kept
// distinct so the profile can be recreated without orphaning bookings.
type DoctorProfile struct {
	BaseModel
	UserID    string `gorm:"size:36;uniqueIndex" json:"userId"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Specialty string `gorm:"size:100" json:"specialty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
