package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/notifications"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// errSlotTaken aborts the booking transaction when the slot is occupied.
var errSlotTaken = errors.New("slot already booked")

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB       *gorm.DB
	Notifier *notifications.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, notifier *notifications.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Notifier: notifier}
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// CreateAppointment books a slot for the authenticated patient.
//
// Order matters: local field validation first (a past date must be
// rejected before any database work), then doctor existence, then, in
// one transaction, the offered-hour membership check and the uniqueness
// check against other non-cancelled appointments.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RolePatient {
		utils.Forbidden(c, "Only patients can book appointments.")
		return
	}

	if !scheduling.ValidDate(req.Date) {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if scheduling.IsPastDate(req.Date, time.Now()) {
		utils.BadRequest(c, "Appointment date must not be in the past.")
		return
	}
	if !scheduling.ValidHour(req.Time) {
		utils.BadRequest(c, "Invalid time, expected HH:MM")
		return
	}

	var doctor models.DoctorProfile
	if err := h.DB.Where("user_id = ?", req.DoctorID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	weekday, err := scheduling.WeekdayOf(req.Date)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	appointment := models.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Reason:    req.Reason,
		Status:    models.StatusPending,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var availability models.WeekdayAvailability
		err := tx.Where("doctor_id = ? AND weekday = ?", req.DoctorID, weekday).
			First(&availability).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		offered := false
		for _, hour := range availability.Hours {
			if hour == req.Time {
				offered = true
				break
			}
		}
		if !offered {
			return fmt.Errorf("le médecin n'est pas disponible le %s à %s", weekday, req.Time)
		}

		taken, err := scheduling.SlotTaken(tx, req.DoctorID, req.Date, req.Time, "")
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) {
			utils.Conflict(c, fmt.Sprintf("Le créneau %s est déjà réservé pour le %s.", req.Time, req.Date))
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	h.notifyParties(c, &appointment, h.Notifier.AppointmentCreated)

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser lists appointments for the logged-in user:
// patients see their own, doctors see their schedule, admins see all.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	query := h.DB.Order("date asc, time asc")

	var err error
	switch role {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments.")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID fetches a single appointment. Accessible by the
// involved patient, the involved doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	if role != models.RoleAdmin && userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// GetOccupiedTimes returns the hours already booked for a doctor on one
// exact date, excluding cancelled appointments. The booking form
// subtracts these from the weekday's offered hours.
func (h *AppointmentHandler) GetOccupiedTimes(c *gin.Context) {
	doctorID := c.Param("doctorId")
	date := c.Param("date")
	if !scheduling.ValidDate(date) {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	occupied, err := scheduling.OccupiedOnDate(h.DB, doctorID, date)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch occupied times: "+err.Error())
		return
	}

	utils.Success(c, "Occupied times fetched successfully", gin.H{
		"doctorId": doctorID,
		"date":     date,
		"occupied": occupied,
	})
}

// UpdateAppointmentRequest represents a partial appointment edit.
type UpdateAppointmentRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	DoctorID string `json:"doctorId"`
	Status   string `json:"status"`
}

// UpdateAppointment edits an appointment. Patients may move their own
// booking or cancel it; status changes other than cancellation require a
// doctor or admin. Cancelled appointments are terminal and cannot be
// edited further. Moving the slot re-runs the uniqueness check.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	involved := userID == appointment.PatientID || userID == appointment.DoctorID
	if role != models.RoleAdmin && !involved {
		utils.Forbidden(c, "You are not authorized to modify this appointment.")
		return
	}
	if appointment.Cancelled() {
		utils.BadRequest(c, "Cancelled appointments cannot be modified.")
		return
	}

	if req.Status != "" {
		status := models.AppointmentStatus(req.Status)
		if !models.ValidStatus(status) {
			utils.BadRequest(c, "Unknown status: "+req.Status)
			return
		}
		privileged := role == models.RoleAdmin ||
			(role == models.RoleDoctor && userID == appointment.DoctorID)
		if !privileged && status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments.")
			return
		}
		appointment.Status = status
	}

	if req.Date != "" {
		if !scheduling.ValidDate(req.Date) {
			utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		if scheduling.IsPastDate(req.Date, time.Now()) {
			utils.BadRequest(c, "Appointment date must not be in the past.")
			return
		}
		appointment.Date = req.Date
	}
	if req.Time != "" {
		if !scheduling.ValidHour(req.Time) {
			utils.BadRequest(c, "Invalid time, expected HH:MM")
			return
		}
		appointment.Time = req.Time
	}
	if req.Type != "" {
		appointment.Type = req.Type
	}
	if req.DoctorID != "" {
		var doctor models.DoctorProfile
		if err := h.DB.Where("user_id = ?", req.DoctorID).First(&doctor).Error; err != nil {
			utils.NotFound(c, "Doctor not found")
			return
		}
		appointment.DoctorID = req.DoctorID
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if !appointment.Cancelled() && (req.Date != "" || req.Time != "" || req.DoctorID != "") {
			taken, err := scheduling.SlotTaken(tx,
				appointment.DoctorID, appointment.Date, appointment.Time, appointment.ID)
			if err != nil {
				return err
			}
			if taken {
				return errSlotTaken
			}
		}
		return tx.Save(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) {
			utils.Conflict(c, fmt.Sprintf("Le créneau %s est déjà réservé pour le %s.", appointment.Time, appointment.Date))
		} else {
			utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		}
		return
	}

	if appointment.Cancelled() {
		h.notifyParties(c, &appointment, h.Notifier.AppointmentCancelled)
	} else {
		h.notifyParties(c, &appointment, h.Notifier.AppointmentUpdated)
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// notifyParties emails the patient and the doctor about an appointment
// event. Lookup or delivery problems never fail the request.
func (h *AppointmentHandler) notifyParties(c *gin.Context, appointment *models.Appointment,
	notify func(ctx context.Context, user *models.User, doctorName, date, hour string)) {
	if h.Notifier == nil {
		return
	}

	doctorName := "votre médecin"
	var profile models.DoctorProfile
	if err := h.DB.Where("user_id = ?", appointment.DoctorID).First(&profile).Error; err == nil {
		doctorName = "Dr " + profile.LastName
	}

	for _, id := range []string{appointment.PatientID, appointment.DoctorID} {
		var user models.User
		if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
			continue
		}
		notify(c.Request.Context(), &user, doctorName, appointment.Date, appointment.Time)
	}
}
