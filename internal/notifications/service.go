package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"clinic-scheduling-server/internal/models"
)

// Service composes appointment emails, delivers them through an
// EmailSender and records every attempt as a Notification row.
type Service struct {
	DB     *gorm.DB
	Sender EmailSender
}

// NewService creates a notification service. A nil sender falls back to
// the logging stub.
func NewService(db *gorm.DB, sender EmailSender) *Service {
	if sender == nil {
		sender = StubSender{}
	}
	return &Service{DB: db, Sender: sender}
}

// AppointmentCreated notifies a user that a booking was made.
func (s *Service) AppointmentCreated(ctx context.Context, user *models.User, doctorName, date, hour string) {
	s.deliver(ctx, user,
		"Rendez-vous créé",
		fmt.Sprintf("Votre rendez-vous avec %s le %s à %s a bien été enregistré.", doctorName, date, hour))
}

// AppointmentUpdated notifies a user that a booking changed.
func (s *Service) AppointmentUpdated(ctx context.Context, user *models.User, doctorName, date, hour string) {
	s.deliver(ctx, user,
		"Rendez-vous modifié",
		fmt.Sprintf("Votre rendez-vous avec %s a été déplacé au %s à %s.", doctorName, date, hour))
}

// AppointmentCancelled notifies a user that a booking was cancelled.
func (s *Service) AppointmentCancelled(ctx context.Context, user *models.User, doctorName, date, hour string) {
	s.deliver(ctx, user,
		"Rendez-vous annulé",
		fmt.Sprintf("Votre rendez-vous avec %s le %s à %s a été annulé.", doctorName, date, hour))
}

func (s *Service) deliver(ctx context.Context, user *models.User, subject, body string) {
	if user == nil || user.Email == "" {
		return
	}

	status := models.NotificationSent
	if err := s.Sender.Send(ctx, EmailMessage{
		To:      user.Email,
		ToName:  user.FirstName + " " + user.LastName,
		Subject: subject,
		Body:    body,
	}); err != nil {
		log.Printf("notifications: delivery to %s failed: %v", user.Email, err)
		status = models.NotificationFailed
	}

	now := time.Now()
	record := models.Notification{
		UserID:  user.ID,
		Email:   user.Email,
		Subject: subject,
		Body:    body,
		Status:  status,
		SentAt:  &now,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		log.Printf("notifications: failed to record notification for %s: %v", user.ID, err)
	}
}
