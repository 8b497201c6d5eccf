package models

import (
	"time"
)

// NotificationStatus represents the delivery outcome of a notification
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is the persisted log of an outbound appointment email.
// Delivery is best effort; failures are recorded here, never surfaced to
// the booking flow.
type Notification struct {
	BaseModel
	UserID  string             `gorm:"size:36;index" json:"userId"`
	Email   string             `gorm:"size:255" json:"email"`
	Subject string             `gorm:"size:255" json:"subject"`
	Body    string             `gorm:"type:text" json:"body"`
	Status  NotificationStatus `gorm:"size:20;default:'sent'" json:"status"`
	SentAt  *time.Time         `json:"sentAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
