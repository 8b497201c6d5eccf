package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// HourList is an ordered list of "HH:MM" strings stored as a JSON column.
type HourList []string

// Value implements driver.Valuer.
func (h HourList) Value() (driver.Value, error) {
	if h == nil {
		h = HourList{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (h *HourList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = HourList{}
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("cannot scan %T into HourList", src)
	}
}

// WeekdayAvailability is the recurring set of offerable hours for one
// doctor on one day of the week (monday..friday), independent of any
// calendar date. One row per (doctor, weekday); saving a weekday replaces
// that row's list and touches nothing else.
type WeekdayAvailability struct {
	BaseModel
	DoctorID string   `gorm:"size:36;uniqueIndex:idx_doctor_weekday" json:"doctorId"`
	Weekday  string   `gorm:"size:10;uniqueIndex:idx_doctor_weekday" json:"weekday"`
	Hours    HourList `gorm:"type:text" json:"hours"`
}
